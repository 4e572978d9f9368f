package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/utils"
)

// fakeRegistry is an in-memory TerminalRegistry used across the importer
// package tests.
type fakeRegistry struct {
	mu          sync.Mutex
	known       map[string]struct{}
	assignments map[string]int64
	created     []models.Terminal
	failSerials map[string]error // normalized serial -> error returned by Create
	listErr     error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		known:       make(map[string]struct{}),
		assignments: make(map[string]int64),
		failSerials: make(map[string]error),
	}
}

func (f *fakeRegistry) ListKnownIdentifiers(ctx context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	known := make(map[string]struct{}, len(f.known))
	for k := range f.known {
		known[k] = struct{}{}
	}
	return known, nil
}

func (f *fakeRegistry) Create(ctx context.Context, serial, model, status string) (models.Terminal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	normalized := utils.NormalizeTerminalID(serial)
	if err, ok := f.failSerials[normalized]; ok {
		return models.Terminal{}, err
	}
	if _, ok := f.known[normalized]; ok {
		return models.Terminal{}, fmt.Errorf("%w: %s", ErrTerminalExists, normalized)
	}
	terminal := models.Terminal{
		ID:               int64(len(f.created) + 1),
		Serial:           serial,
		SerialNormalized: normalized,
		Model:            model,
		Status:           status,
	}
	f.known[normalized] = struct{}{}
	f.created = append(f.created, terminal)
	return terminal, nil
}

func (f *fakeRegistry) ClientAssignments(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignments := make(map[string]int64, len(f.assignments))
	for k, v := range f.assignments {
		assignments[k] = v
	}
	return assignments, nil
}

func salesForTerminals(terminals ...string) []models.CanonicalSale {
	sales := make([]models.CanonicalSale, 0, len(terminals))
	for i, terminal := range terminals {
		sales = append(sales, models.CanonicalSale{
			TransactionID: fmt.Sprintf("T%d", i),
			TerminalID:    terminal,
			SaleDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			GrossAmount:   100,
			PaymentType:   models.PaymentCredit,
			Installments:  1,
			Source:        models.SourceCielo,
		})
	}
	return sales
}

func TestReconcileCreatesMissingTerminalsOnce(t *testing.T) {
	registry := newFakeRegistry()
	reconciler := NewTerminalReconciler(registry)

	// "ABC 001" and "abc001" normalize to the same identifier; only one entry
	// may ever be created for them.
	result, err := reconciler.Reconcile(context.Background(), salesForTerminals("ABC 001", "abc001", "XYZ-9"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Referenced)
	assert.Equal(t, 0, result.AlreadyKnown)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, registry.created, 2)

	// The stored serial is the original string, first occurrence wins.
	serials := []string{registry.created[0].Serial, registry.created[1].Serial}
	assert.Contains(t, serials, "ABC 001")
	assert.Contains(t, serials, "XYZ-9")

	for _, created := range registry.created {
		assert.Equal(t, models.PlaceholderTerminalModel, created.Model)
		assert.Equal(t, models.TerminalStatusAvailable, created.Status)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	registry := newFakeRegistry()
	reconciler := NewTerminalReconciler(registry)
	sales := salesForTerminals("ABC 001", "XYZ-9")

	first, err := reconciler.Reconcile(context.Background(), sales)
	require.NoError(t, err)
	assert.Len(t, first.Created, 2)

	second, err := reconciler.Reconcile(context.Background(), sales)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 2, second.AlreadyKnown)
	assert.Len(t, registry.created, 2)
}

func TestReconcileSkipsKnownTerminals(t *testing.T) {
	registry := newFakeRegistry()
	registry.known["abc001"] = struct{}{}
	reconciler := NewTerminalReconciler(registry)

	result, err := reconciler.Reconcile(context.Background(), salesForTerminals("ABC 001", "NEW-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlreadyKnown)
	assert.Equal(t, []string{"NEW-1"}, result.Created)
}

func TestReconcileContinuesAfterCreateFailure(t *testing.T) {
	registry := newFakeRegistry()
	registry.failSerials["bad-1"] = errors.New("registry write refused")
	reconciler := NewTerminalReconciler(registry)

	result, err := reconciler.Reconcile(context.Background(), salesForTerminals("BAD-1", "GOOD-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"GOOD-1"}, result.Created)
}

func TestReconcileTreatsLostCreateRaceAsKnown(t *testing.T) {
	registry := newFakeRegistry()
	registry.failSerials["raced"] = fmt.Errorf("%w: raced", ErrTerminalExists)
	reconciler := NewTerminalReconciler(registry)

	result, err := reconciler.Reconcile(context.Background(), salesForTerminals("RACED"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.AlreadyKnown)
	assert.Empty(t, result.Created)
}

func TestReconcileListFailureIsFatal(t *testing.T) {
	registry := newFakeRegistry()
	registry.listErr = errors.New("registry unavailable")
	reconciler := NewTerminalReconciler(registry)

	_, err := reconciler.Reconcile(context.Background(), salesForTerminals("ABC 001"))
	assert.Error(t, err)
	assert.Empty(t, registry.created)
}

func TestReconcileIgnoresEmptyTerminalIDs(t *testing.T) {
	registry := newFakeRegistry()
	reconciler := NewTerminalReconciler(registry)

	sales := salesForTerminals("ABC 001")
	sales = append(sales, models.CanonicalSale{GrossAmount: 10})

	result, err := reconciler.Reconcile(context.Background(), sales)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Referenced)
}
