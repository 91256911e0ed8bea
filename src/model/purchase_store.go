package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/models"
)

// PurchaseStore is the gateway to the purchases table. Column names follow
// the upstream SAE schema (CVE_DOC, FECHA_DOC, ...) so the replication job
// that feeds this database needs no renaming layer.
type PurchaseStore struct {
	DB *sql.DB
}

func NewPurchaseStore(db *sql.DB) *PurchaseStore {
	return &PurchaseStore{DB: db}
}

// FetchUnsynchronized returns purchases whose document date falls within the
// trailing window and that have not been pushed to Monday yet. Order is
// stable (document date, then key) so batch results are reproducible.
func (s *PurchaseStore) FetchUnsynchronized(windowDays int) ([]models.Purchase, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -windowDays)

	query := `
	SELECT cve_doc, nombre, su_refer, fecha_doc, fecha_pag, moneda, tipcamb, tot_ind, importe, importeme, sincronizado
	FROM purchases
	WHERE fecha_doc >= ? AND fecha_doc <= ? AND sincronizado = 0
	ORDER BY fecha_doc, cve_doc`

	rows, err := s.DB.Query(query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("querying unsynchronized purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(
			&p.DocumentKey, &p.Name, &p.Reference,
			&p.DocumentDate, &p.PaymentDate, &p.Currency,
			&p.ExchangeRate, &p.TotalIndirect, &p.Amount, &p.AmountInCurrency,
			&p.Synchronized,
		); err != nil {
			return nil, fmt.Errorf("scanning purchase row: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase rows: %w", err)
	}

	logger.L.Info("Fetched unsynchronized purchases", "count", len(purchases), "windowDays", windowDays)
	return purchases, nil
}

// MarkSynchronized flips the flag for exactly one document inside its own
// transaction, so a failure here can never leave another record's committed
// update half-applied.
func (s *PurchaseStore) MarkSynchronized(documentKey string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for %s: %w", documentKey, err)
	}

	res, err := tx.Exec(`UPDATE purchases SET sincronizado = 1 WHERE cve_doc = ?`, documentKey)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("updating synchronized flag for %s: %w", documentKey, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("checking update result for %s: %w", documentKey, err)
	}
	if affected == 0 {
		tx.Rollback()
		return fmt.Errorf("purchase %s not found", documentKey)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing synchronized flag for %s: %w", documentKey, err)
	}
	return nil
}
