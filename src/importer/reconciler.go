// backend/src/importer/reconciler.go
package importer

import (
	"context"
	"errors"
	"sort"

	"github.com/username/paydash/backend/src/logger"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/utils"
)

// ErrTerminalExists is returned by a registry Create when another writer got
// there first. The reconciler treats it as "already known", which keeps the
// operation idempotent even across concurrent runs, provided the registry
// enforces uniqueness on the normalized serial.
var ErrTerminalExists = errors.New("terminal already registered")

// TerminalRegistry is the external registry collaborator. Identifier sets and
// client assignments are keyed by the normalized serial.
type TerminalRegistry interface {
	ListKnownIdentifiers(ctx context.Context) (map[string]struct{}, error)
	Create(ctx context.Context, serial, model, status string) (models.Terminal, error)
	ClientAssignments(ctx context.Context) (map[string]int64, error)
}

// ReconcileResult summarizes one reconciliation pass for the operator.
type ReconcileResult struct {
	Referenced   int      `json:"referenced"`
	AlreadyKnown int      `json:"already_known"`
	Created      []string `json:"created"`
	Failed       int      `json:"failed"`
}

// TerminalReconciler ensures every terminal referenced by a batch of
// normalized sales has a registry entry, creating missing ones exactly once.
type TerminalReconciler struct {
	registry TerminalRegistry
}

func NewTerminalReconciler(registry TerminalRegistry) *TerminalReconciler {
	return &TerminalReconciler{registry: registry}
}

// Reconcile diffs the referenced terminal set against the registry and creates
// the difference. Comparison uses the normalized serial; the stored serial is
// the original string as first seen in the batch. A failed create is logged
// and skipped so the remaining entries (and the sales referencing the failed
// one) still go through; only a failure to list the registry is fatal, since
// without the known set every create would be a guess.
func (r *TerminalReconciler) Reconcile(ctx context.Context, sales []models.CanonicalSale) (*ReconcileResult, error) {
	referenced := make(map[string]string) // normalized -> original, first occurrence wins
	for _, sale := range sales {
		if sale.TerminalID == "" {
			continue
		}
		key := utils.NormalizeTerminalID(sale.TerminalID)
		if _, seen := referenced[key]; !seen {
			referenced[key] = sale.TerminalID
		}
	}

	known, err := r.registry.ListKnownIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{Referenced: len(referenced)}

	var missing []string
	for key := range referenced {
		if _, ok := known[key]; ok {
			result.AlreadyKnown++
		} else {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	for _, key := range missing {
		serial := referenced[key]
		_, err := r.registry.Create(ctx, serial, models.PlaceholderTerminalModel, models.TerminalStatusAvailable)
		if err != nil {
			if errors.Is(err, ErrTerminalExists) {
				result.AlreadyKnown++
				continue
			}
			result.Failed++
			if logger.L != nil {
				logger.L.Error("failed to create terminal registry entry, continuing with remaining terminals",
					"serial", serial, "error", err)
			}
			continue
		}
		result.Created = append(result.Created, serial)
	}

	return result, nil
}
