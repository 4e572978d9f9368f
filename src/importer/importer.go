// backend/src/importer/importer.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/username/paydash/backend/src/logger"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/utils"
)

// ErrCommitFailed wraps any failure of the bulk insert. The whole run's
// persistence is treated as not committed; the operator retries the run as a
// unit. No partial commit is attempted, since replaying a half-committed batch
// of synthesized ids would silently duplicate sales.
var ErrCommitFailed = errors.New("sale batch commit failed")

// SaleWriter is the persistence collaborator. BulkInsert is a single atomic
// operation: either every sale is written or none are.
type SaleWriter interface {
	BulkInsert(ctx context.Context, sales []models.PersistedSale) (int, error)
}

// BatchImporter converts accepted canonical sales into persisted sales and
// commits them in one bulk operation per run.
type BatchImporter struct {
	sales    SaleWriter
	registry TerminalRegistry
	feeRate  float64
}

func NewBatchImporter(sales SaleWriter, registry TerminalRegistry, feeRate float64) *BatchImporter {
	return &BatchImporter{sales: sales, registry: registry, feeRate: feeRate}
}

// Commit persists a batch of canonical sales. Per record it synthesizes a
// transaction id when the source provided none, derives the net amount as a
// flat proportional deduction from the gross (an approximation, not fee-plan
// pricing), and resolves the client from the terminal's registry assignment,
// falling back to the unassigned placeholder.
func (b *BatchImporter) Commit(ctx context.Context, runTime time.Time, records []models.CanonicalSale) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	assignments, err := b.registry.ClientAssignments(ctx)
	if err != nil {
		// Assignment lookup failing is not worth losing the batch over; every
		// sale just lands on the placeholder client.
		if logger.L != nil {
			logger.L.Warn("could not load terminal client assignments, importing sales as unassigned", "error", err)
		}
		assignments = map[string]int64{}
	}

	stamp := runTime.UTC().Format("20060102150405")
	persisted := make([]models.PersistedSale, 0, len(records))
	for _, rec := range records {
		txID := rec.TransactionID
		if txID == "" {
			txID = synthesizeTransactionID(stamp)
		}

		clientID := models.UnassignedClientID
		if id, ok := assignments[utils.NormalizeTerminalID(rec.TerminalID)]; ok && id != 0 {
			clientID = id
		}

		persisted = append(persisted, models.PersistedSale{
			TransactionID:  txID,
			TerminalSerial: rec.TerminalID,
			ClientID:       clientID,
			SaleDate:       rec.SaleDate.Format(time.RFC3339),
			GrossAmount:    rec.GrossAmount,
			NetAmount:      utils.RoundFloat(rec.GrossAmount*(1-b.feeRate), 2),
			PaymentType:    string(rec.PaymentType),
			Status:         rec.Status,
			CardBrand:      rec.CardBrand,
			Installments:   rec.Installments,
			Source:         string(rec.Source),
		})
	}

	count, err := b.sales.BulkInsert(ctx, persisted)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return count, nil
}

// synthesizeTransactionID builds an id unique within and across runs, so a
// replayed import can never collide with an earlier commit's synthesized ids.
func synthesizeTransactionID(runStamp string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("imp-%s-%s", runStamp, suffix)
}
