package models

import "time"

// Purchase represents one purchase invoice row from the SAE purchases table.
// Rows are created and mutated upstream by the invoicing process; this
// service only reads them and flips the Synchronized flag after a confirmed
// Monday.com creation.
type Purchase struct {
	DocumentKey      string    `json:"CVE_DOC"`
	Name             string    `json:"NOMBRE"`
	Reference        string    `json:"SU_REFER"`
	DocumentDate     time.Time `json:"FECHA_DOC"`
	PaymentDate      time.Time `json:"FECHA_PAG"`
	Currency         string    `json:"MONEDA"`
	ExchangeRate     float64   `json:"TIPCAMB"`
	TotalIndirect    float64   `json:"TOT_IND"`
	Amount           float64   `json:"IMPORTE"`
	AmountInCurrency float64   `json:"IMPORTEME"`
	Synchronized     bool      `json:"SINCRONIZADO"`
}

// MondayItem is the per-record payload submitted to the board. It is built
// from a Purchase, sent, and discarded; nothing about it is persisted.
type MondayItem struct {
	Name         string         `json:"name"`
	ColumnValues map[string]any `json:"column_values"`
}

// Sync result statuses.
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// SyncResult is the outcome for a single purchase within a batch. JSON keys
// match the response shape consumed by the ops dashboard.
type SyncResult struct {
	DocumentKey string `json:"CVE_DOC"`
	MondayID    string `json:"monday_id,omitempty"`
	GroupID     string `json:"group_id,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// SyncSummary aggregates one orchestrator run. Details keep the order in
// which records were fetched and processed.
type SyncSummary struct {
	SyncedItems int          `json:"synced_items"`
	FailedItems int          `json:"failed_items"`
	Details     []SyncResult `json:"details"`
}
