// backend/src/services/import_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/username/paydash/backend/src/importer"
	"github.com/username/paydash/backend/src/logger"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/parsers"
)

type importServiceImpl struct {
	reconciler    *importer.TerminalReconciler
	batchImporter *importer.BatchImporter
	pendingRuns   *cache.Cache
	pendingTTL    time.Duration
	commitMu      sync.Mutex
}

func NewImportService(
	reconciler *importer.TerminalReconciler,
	batchImporter *importer.BatchImporter,
	pendingRuns *cache.Cache,
	pendingTTL time.Duration,
) ImportService {
	return &importServiceImpl{
		reconciler:    reconciler,
		batchImporter: batchImporter,
		pendingRuns:   pendingRuns,
		pendingTTL:    pendingTTL,
	}
}

// ProcessFiles runs the read/classify/clean/normalize stages for every file of
// the batch. Files are independent, so they are processed in parallel; each
// goroutine writes only its own slot plus append-only warnings. A malformed or
// unrecognized file is downgraded to one file-level warning (row -1) and the
// other files proceed. The merged result is stashed as a pending run awaiting
// operator approval.
func (s *importServiceImpl) ProcessFiles(ctx context.Context, files []UploadedFile) (*ImportRun, error) {
	runTime := time.Now().UTC()
	warnings := models.NewWarningCollector()

	perFile := make([][]models.CanonicalSale, len(files))
	summaries := make([]FileSummary, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sales, source, err := parsers.ParseFile(file.Name, bytes.NewReader(file.Content), runTime, warnings)
			if err != nil {
				if errors.Is(err, parsers.ErrMalformedFile) || errors.Is(err, parsers.ErrUnknownSource) {
					warnings.Add(file.Name, -1, err.Error())
					summaries[i] = FileSummary{Name: file.Name, Source: models.SourceUnknown, Rejected: true}
					return nil
				}
				return fmt.Errorf("processing %s: %w", file.Name, err)
			}
			perFile[i] = sales
			summaries[i] = FileSummary{Name: file.Name, Source: source, Accepted: len(sales)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []models.CanonicalSale
	for _, sales := range perFile {
		records = append(records, sales...)
	}

	run := &ImportRun{
		ID:        uuid.NewString(),
		CreatedAt: runTime,
		Files:     summaries,
		Records:   records,
		Warnings:  warnings.All(),
	}
	s.pendingRuns.Set(run.ID, run, s.pendingTTL)

	if logger.L != nil {
		logger.L.Info("Import run processed and pending approval",
			"runID", run.ID, "files", len(files), "records", len(records), "warnings", len(run.Warnings))
	}
	return run, nil
}

func (s *importServiceImpl) GetRun(runID string) (*ImportRun, error) {
	cached, found := s.pendingRuns.Get(runID)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return cached.(*ImportRun), nil
}

// CommitRun reconciles the run's terminal set and commits its records as one
// bulk insert. The pending run is evicted only after a successful commit, so a
// failed commit stays retryable as a whole and a committed run cannot be
// committed twice. Commits are serialized: the cache's get and delete are not
// atomic, and without the lock a double-submitted run could pass the lookup
// twice and insert its batch twice.
func (s *importServiceImpl) CommitRun(ctx context.Context, runID string) (*CommitResult, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}

	reconciliation, err := s.reconciler.Reconcile(ctx, run.Records)
	if err != nil {
		return nil, fmt.Errorf("terminal reconciliation for run %s: %w", runID, err)
	}

	committed, err := s.batchImporter.Commit(ctx, run.CreatedAt, run.Records)
	if err != nil {
		return nil, err
	}

	s.pendingRuns.Delete(runID)
	if logger.L != nil {
		logger.L.Info("Import run committed",
			"runID", runID, "committed", committed,
			"terminalsCreated", len(reconciliation.Created), "terminalCreateFailures", reconciliation.Failed)
	}
	return &CommitResult{Committed: committed, Reconciliation: reconciliation}, nil
}
