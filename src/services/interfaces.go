package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/comprasync/backend/src/models"
)

// Common service errors
var (
	ErrMappingFailed = errors.New("purchase mapping failed")
)

// PurchaseStore is what the orchestrator needs from the purchases table.
type PurchaseStore interface {
	FetchUnsynchronized(windowDays int) ([]models.Purchase, error)
	MarkSynchronized(documentKey string) error
}

// MondayService is the slice of the Monday.com client used during a sync run.
type MondayService interface {
	GetOrCreateGroupByDate(ctx context.Context, boardID string, docDate time.Time) (string, error)
	CreateItem(ctx context.Context, boardID, itemName string, columnValues map[string]any, groupID string) (string, error)
}

// SyncService drives the purchase synchronization loop.
type SyncService interface {
	// SyncRecentPurchases fetches the unsynchronized window and processes it.
	// It returns an error only when the fetch itself fails; per-record
	// failures are reported inside the summary.
	SyncRecentPurchases(ctx context.Context) (models.SyncSummary, error)

	// SyncPurchases processes an already-fetched batch in order.
	SyncPurchases(ctx context.Context, purchases []models.Purchase) models.SyncSummary

	// LastSummary returns the most recent run's summary while it is still
	// within the retention window.
	LastSummary() (models.SyncSummary, bool)
}
