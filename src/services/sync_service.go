package services

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/models"
	"github.com/username/comprasync/backend/src/monday"
)

// Retention for the last-run summary served by the status endpoint.
const (
	SummaryCacheExpiration      = 24 * time.Hour
	SummaryCacheCleanupInterval = 1 * time.Hour
)

const lastSummaryCacheKey = "sync:last-summary"

// errInsufficientResponse marks a structurally valid Monday response that
// carried no created-item id.
var errInsufficientResponse = errors.New("monday returned no item id")

type syncServiceImpl struct {
	store        PurchaseStore
	monday       MondayService
	boardID      string
	windowDays   int
	summaryCache *cache.Cache
}

// NewSyncService builds the orchestrator. All collaborators are injected so
// tests can substitute fakes; the service itself keeps no hidden globals.
func NewSyncService(store PurchaseStore, mondaySvc MondayService, boardID string, windowDays int, summaryCache *cache.Cache) SyncService {
	return &syncServiceImpl{
		store:        store,
		monday:       mondaySvc,
		boardID:      boardID,
		windowDays:   windowDays,
		summaryCache: summaryCache,
	}
}

func (s *syncServiceImpl) SyncRecentPurchases(ctx context.Context) (models.SyncSummary, error) {
	purchases, err := s.store.FetchUnsynchronized(s.windowDays)
	if err != nil {
		// No partial batch: if the store cannot be read, nothing runs.
		return models.SyncSummary{}, err
	}
	return s.SyncPurchases(ctx, purchases), nil
}

// SyncPurchases processes the batch sequentially in fetch order. Each record
// is its own failure boundary: a purchase is marked synchronized only after
// Monday confirms the created item, and one record's failure never aborts
// the batch or touches another record's committed flag.
func (s *syncServiceImpl) SyncPurchases(ctx context.Context, purchases []models.Purchase) models.SyncSummary {
	summary := models.SyncSummary{Details: make([]models.SyncResult, 0, len(purchases))}

	for _, purchase := range purchases {
		result := s.syncOne(ctx, purchase)
		if result.Status == models.SyncStatusSuccess {
			summary.SyncedItems++
		} else {
			summary.FailedItems++
		}
		summary.Details = append(summary.Details, result)
	}

	logger.L.Info("Sync run finished",
		"synced", summary.SyncedItems,
		"failed", summary.FailedItems,
		"total", len(purchases))

	if s.summaryCache != nil {
		s.summaryCache.Set(lastSummaryCacheKey, summary, cache.DefaultExpiration)
	}
	return summary
}

func (s *syncServiceImpl) syncOne(ctx context.Context, purchase models.Purchase) models.SyncResult {
	groupID, err := s.monday.GetOrCreateGroupByDate(ctx, s.boardID, purchase.DocumentDate)
	if err != nil {
		return s.failed(purchase, err)
	}

	item, err := MapToMondayItem(purchase)
	if err != nil {
		return s.failed(purchase, err)
	}

	itemID, err := s.monday.CreateItem(ctx, s.boardID, item.Name, item.ColumnValues, groupID)
	if err != nil {
		return s.failed(purchase, err)
	}
	if itemID == "" {
		// Monday answered without an item id; the flag must stay false.
		return s.failed(purchase, errInsufficientResponse)
	}

	if err := s.store.MarkSynchronized(purchase.DocumentKey); err != nil {
		return s.failed(purchase, err)
	}

	logger.L.Info("Purchase synchronized",
		"documentKey", purchase.DocumentKey,
		"group", monday.GroupLabelFor(purchase.DocumentDate),
		"groupID", groupID,
		"mondayID", itemID)

	return models.SyncResult{
		DocumentKey: purchase.DocumentKey,
		MondayID:    itemID,
		GroupID:     groupID,
		Status:      models.SyncStatusSuccess,
	}
}

func (s *syncServiceImpl) failed(purchase models.Purchase, err error) models.SyncResult {
	logger.L.Error("Failed to synchronize purchase", "documentKey", purchase.DocumentKey, "error", err)
	return models.SyncResult{
		DocumentKey: purchase.DocumentKey,
		Status:      models.SyncStatusFailed,
		Error:       err.Error(),
	}
}

func (s *syncServiceImpl) LastSummary() (models.SyncSummary, bool) {
	if s.summaryCache == nil {
		return models.SyncSummary{}, false
	}
	v, found := s.summaryCache.Get(lastSummaryCacheKey)
	if !found {
		return models.SyncSummary{}, false
	}
	summary, ok := v.(models.SyncSummary)
	return summary, ok
}
