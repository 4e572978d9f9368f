package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/paydash/backend/src/importer"
	"github.com/username/paydash/backend/src/models"
)

// ErrRunNotFound means the run id is unknown or the pending run expired
// before the operator acted on it.
var ErrRunNotFound = errors.New("import run not found")

// UploadedFile is one file of an import run as received from the operator.
type UploadedFile struct {
	Name    string
	Content []byte
}

// FileSummary is the per-file outcome surfaced in the preview.
type FileSummary struct {
	Name     string        `json:"name"`
	Source   models.Source `json:"source"`
	Accepted int           `json:"accepted"`
	Rejected bool          `json:"rejected"`
}

// ImportRun is a processed batch of files held pending operator approval.
// Nothing is persisted until the run is committed; rejecting it (or letting it
// expire) leaves no side effects.
type ImportRun struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Files     []FileSummary          `json:"files"`
	Records   []models.CanonicalSale `json:"records"`
	Warnings  []models.Warning       `json:"warnings"`
}

// CommitResult reports a committed run back to the operator.
type CommitResult struct {
	Committed      int                       `json:"committed"`
	Reconciliation *importer.ReconcileResult `json:"reconciliation"`
}

// ImportService defines the core multi-file sale import workflow:
// process (parse + normalize, held pending), preview, export for audit,
// commit (reconcile terminals + bulk insert).
type ImportService interface {
	ProcessFiles(ctx context.Context, files []UploadedFile) (*ImportRun, error)
	GetRun(runID string) (*ImportRun, error)
	ExportRun(runID string) ([]byte, error)
	CommitRun(ctx context.Context, runID string) (*CommitResult, error)
}
