// backend/src/storage/terminal_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/paydash/backend/src/importer"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/utils"
)

// TerminalStore is the sqlite-backed terminal registry. The UNIQUE index on
// serial_normalized is what makes concurrent create-if-missing safe: losing a
// race surfaces as importer.ErrTerminalExists rather than a duplicate row.
type TerminalStore struct {
	db *sql.DB
}

func NewTerminalStore(db *sql.DB) *TerminalStore {
	return &TerminalStore{db: db}
}

// ListKnownIdentifiers returns the set of normalized serials already present
// in the registry.
func (s *TerminalStore) ListKnownIdentifiers(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT serial_normalized FROM terminals`)
	if err != nil {
		return nil, fmt.Errorf("error querying known terminals: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var serial string
		if err := rows.Scan(&serial); err != nil {
			return nil, fmt.Errorf("error scanning terminal serial: %w", err)
		}
		known[serial] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over terminal serials: %w", err)
	}
	return known, nil
}

// Create registers a new terminal, storing the serial as given and its
// normalized form for uniqueness.
func (s *TerminalStore) Create(ctx context.Context, serial, model, status string) (models.Terminal, error) {
	normalized := utils.NormalizeTerminalID(serial)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO terminals (serial, serial_normalized, model, status) VALUES (?, ?, ?, ?)`,
		serial, normalized, model, status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return models.Terminal{}, fmt.Errorf("%w: %s", importer.ErrTerminalExists, normalized)
		}
		return models.Terminal{}, fmt.Errorf("error inserting terminal %s: %w", serial, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Terminal{}, fmt.Errorf("error reading new terminal id: %w", err)
	}
	return models.Terminal{
		ID:               id,
		Serial:           serial,
		SerialNormalized: normalized,
		Model:            model,
		Status:           status,
		ClientID:         models.UnassignedClientID,
	}, nil
}

// ClientAssignments maps normalized serials to their assigned client ids.
// Unassigned terminals are omitted.
func (s *TerminalStore) ClientAssignments(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT serial_normalized, client_id FROM terminals WHERE client_id IS NOT NULL AND client_id != 0`)
	if err != nil {
		return nil, fmt.Errorf("error querying terminal client assignments: %w", err)
	}
	defer rows.Close()

	assignments := make(map[string]int64)
	for rows.Next() {
		var serial string
		var clientID int64
		if err := rows.Scan(&serial, &clientID); err != nil {
			return nil, fmt.Errorf("error scanning terminal assignment: %w", err)
		}
		assignments[serial] = clientID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over terminal assignments: %w", err)
	}
	return assignments, nil
}
