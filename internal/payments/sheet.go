// internal/payments/sheet.go
package payments

import (
	"context"
	"fmt"
	"net/url"
	"time"

	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/httpclient"
	"town-connect/internal/common/logger"
)

// SheetLedger mirrors payment entries to a spreadsheet-backed log by
// posting form data to its Apps Script web-app endpoint. It is a
// best-effort mirror of the Postgres ledger, not the durable record.
type SheetLedger struct {
	client *httpclient.Client
	url    string
	logger logger.Logger
}

func NewSheetLedger(ledgerURL string, timeout time.Duration, log logger.Logger) *SheetLedger {
	return &SheetLedger{
		client: httpclient.NewClient(timeout),
		url:    ledgerURL,
		logger: log,
	}
}

func (l *SheetLedger) Append(ctx context.Context, entry Entry) error {
	form := url.Values{
		"id":            {entry.ID},
		"tenant":        {entry.TenantSlug},
		"pf_payment_id": {entry.PaymentID},
		"item_name":     {entry.ItemName},
		"amount_gross":  {fmt.Sprintf("%.2f", entry.AmountGross)},
		"amount_net":    {fmt.Sprintf("%.2f", entry.AmountNet)},
		"buyer_email":   {entry.BuyerEmail},
		"recorded_at":   {entry.RecordedAt.Format(time.RFC3339)},
	}

	if err := l.client.PostForm(ctx, l.url, form); err != nil {
		return stderrors.NewLedgerAppendFailedError(err)
	}
	return nil
}

// MultiLedger fans an append out to several ledgers. The first ledger
// is authoritative; failures from the rest are logged and swallowed so
// a flaky sheet endpoint cannot make PayFast redeliver indefinitely.
type MultiLedger struct {
	primary Ledger
	mirrors []Ledger
	logger  logger.Logger
}

func NewMultiLedger(primary Ledger, log logger.Logger, mirrors ...Ledger) *MultiLedger {
	return &MultiLedger{primary: primary, mirrors: mirrors, logger: log}
}

func (m *MultiLedger) Append(ctx context.Context, entry Entry) error {
	if err := m.primary.Append(ctx, entry); err != nil {
		return err
	}
	for _, mirror := range m.mirrors {
		if err := mirror.Append(ctx, entry); err != nil {
			m.logger.Warn("ledger mirror append failed", map[string]interface{}{
				"pf_payment_id": entry.PaymentID,
				"error":         err.Error(),
			})
		}
	}
	return nil
}
