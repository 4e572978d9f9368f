// backend/src/storage/sale_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/paydash/backend/src/models"
)

// SaleStore persists imported sales in sqlite.
type SaleStore struct {
	db *sql.DB
}

func NewSaleStore(db *sql.DB) *SaleStore {
	return &SaleStore{db: db}
}

// BulkInsert writes a whole batch inside one database transaction. Any insert
// failing rolls the entire batch back and reports one error; there is no
// partial commit for the caller to reason about.
func (s *SaleStore) BulkInsert(ctx context.Context, sales []models.PersistedSale) (int, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error beginning sale insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sales
		(transaction_id, terminal_serial, client_id, sale_date, gross_amount, net_amount, payment_type, status, card_brand, installments, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing sale insert statement: %w", err)
	}
	defer stmt.Close()

	for _, sale := range sales {
		_, err := stmt.ExecContext(ctx,
			sale.TransactionID, sale.TerminalSerial, sale.ClientID, sale.SaleDate,
			sale.GrossAmount, sale.NetAmount, sale.PaymentType, sale.Status,
			sale.CardBrand, sale.Installments, sale.Source)
		if err != nil {
			return 0, fmt.Errorf("error inserting sale (transaction_id: %s): %w", sale.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing sale batch: %w", err)
	}
	return len(sales), nil
}

// List returns the most recently imported sales, newest first.
func (s *SaleStore) List(ctx context.Context, limit int) ([]models.PersistedSale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, transaction_id, terminal_serial, client_id, sale_date, gross_amount, net_amount, payment_type, status, card_brand, installments, source
		FROM sales ORDER BY sale_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying sales: %w", err)
	}
	defer rows.Close()

	var sales []models.PersistedSale
	for rows.Next() {
		var sale models.PersistedSale
		if err := rows.Scan(&sale.ID, &sale.TransactionID, &sale.TerminalSerial, &sale.ClientID,
			&sale.SaleDate, &sale.GrossAmount, &sale.NetAmount, &sale.PaymentType,
			&sale.Status, &sale.CardBrand, &sale.Installments, &sale.Source); err != nil {
			return nil, fmt.Errorf("error scanning sale row: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sale rows: %w", err)
	}
	return sales, nil
}
