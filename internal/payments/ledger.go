// Package payments records completed PayFast payments.
//
// The durable record is a Postgres table; a secondary appender mirrors
// each entry to the tenant's spreadsheet-backed payment log so town
// operators can see payments in the tool they already use.
package payments

import (
	"context"
	"time"

	"town-connect/internal/payfast"
)

// Entry is one recorded payment.
type Entry struct {
	ID          string
	TenantSlug  string
	PaymentID   string
	ItemName    string
	AmountGross float64
	AmountFee   float64
	AmountNet   float64
	BuyerEmail  string
	RecordedAt  time.Time
}

// Ledger appends completed payments. Implementations must be safe for
// concurrent use.
type Ledger interface {
	Append(ctx context.Context, entry Entry) error
}

// NewEntry builds a ledger entry from a verified notification.
func NewEntry(id, tenantSlug string, n payfast.Notification) Entry {
	return Entry{
		ID:          id,
		TenantSlug:  tenantSlug,
		PaymentID:   n.PaymentID,
		ItemName:    n.ItemName,
		AmountGross: n.AmountGross,
		AmountFee:   n.AmountFee,
		AmountNet:   n.AmountNet,
		BuyerEmail:  n.BuyerEmail,
		RecordedAt:  time.Now().UTC(),
	}
}
