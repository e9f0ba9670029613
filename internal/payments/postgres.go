// internal/payments/postgres.go
package payments

import (
	"context"

	"town-connect/internal/common/database"
	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/logger"
)

const insertEntrySQL = `
	INSERT INTO payment_ledger
		(id, tenant_slug, pf_payment_id, item_name, amount_gross, amount_fee, amount_net, buyer_email, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (pf_payment_id) DO NOTHING`

// PostgresLedger stores payment entries in the payment_ledger table.
// The pf_payment_id conflict clause makes appends idempotent; PayFast
// redelivers notifications until it sees a success response.
type PostgresLedger struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewPostgresLedger(db *database.PostgresClient, log logger.Logger) *PostgresLedger {
	return &PostgresLedger{db: db, logger: log}
}

func (l *PostgresLedger) Append(ctx context.Context, entry Entry) error {
	_, err := l.db.Exec(ctx, insertEntrySQL,
		entry.ID,
		entry.TenantSlug,
		entry.PaymentID,
		entry.ItemName,
		entry.AmountGross,
		entry.AmountFee,
		entry.AmountNet,
		entry.BuyerEmail,
		entry.RecordedAt,
	)
	if err != nil {
		return stderrors.NewLedgerAppendFailedError(err)
	}

	l.logger.Info("payment recorded", map[string]interface{}{
		"tenant":        entry.TenantSlug,
		"pf_payment_id": entry.PaymentID,
		"amount_gross":  entry.AmountGross,
	})
	return nil
}
