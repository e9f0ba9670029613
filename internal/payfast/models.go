// Package payfast verifies and interprets PayFast Instant Transaction
// Notifications (ITN).
package payfast

import (
	"net/url"
	"strconv"
)

// PaymentStatus values PayFast posts on an ITN.
const (
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
)

// Notification is one parsed ITN payload. Raw keeps every posted field
// for signature verification and auditing.
type Notification struct {
	PaymentID       string
	PaymentStatus   string
	ItemName        string
	ItemDescription string
	AmountGross     float64
	AmountFee       float64
	AmountNet       float64
	MerchantID      string
	BuyerEmail      string
	BuyerName       string
	Signature       string
	Raw             url.Values
}

// ParseNotification maps posted form values onto a Notification. Amounts
// that fail to parse stay zero; signature verification happens before
// any field is trusted, so lenient parsing here is safe.
func ParseNotification(form url.Values) Notification {
	return Notification{
		PaymentID:       form.Get("pf_payment_id"),
		PaymentStatus:   form.Get("payment_status"),
		ItemName:        form.Get("item_name"),
		ItemDescription: form.Get("item_description"),
		AmountGross:     parseAmount(form.Get("amount_gross")),
		AmountFee:       parseAmount(form.Get("amount_fee")),
		AmountNet:       parseAmount(form.Get("amount_net")),
		MerchantID:      form.Get("merchant_id"),
		BuyerEmail:      form.Get("email_address"),
		BuyerName:       form.Get("name_first"),
		Signature:       form.Get("signature"),
		Raw:             form,
	}
}

// IsComplete reports whether this notification should be recorded.
// Only a COMPLETE status triggers the ledger append; every other
// status is acknowledged without side effects.
func (n Notification) IsComplete() bool {
	return n.PaymentStatus == StatusComplete
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
