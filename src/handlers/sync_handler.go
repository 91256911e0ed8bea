package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/models"
	"github.com/username/comprasync/backend/src/services"
	"github.com/username/comprasync/backend/src/utils"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(service services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: service}
}

// syncResponse is the trigger endpoint's body: the batch summary plus an
// overall status. Per-record failures still produce "success" here; only a
// store failure before the loop yields an error response.
type syncResponse struct {
	Status      string              `json:"status"`
	SyncedItems int                 `json:"synced_items"`
	FailedItems int                 `json:"failed_items"`
	Details     []models.SyncResult `json:"details"`
}

// HandleSyncRecentPurchases runs one synchronization batch.
func (h *SyncHandler) HandleSyncRecentPurchases(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Info("Handling sync request")

	summary, err := h.syncService.SyncRecentPurchases(r.Context())
	if err != nil {
		ctxLogger.Error("Sync run aborted", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error fetching purchases to synchronize: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(syncResponse{
		Status:      "success",
		SyncedItems: summary.SyncedItems,
		FailedItems: summary.FailedItems,
		Details:     summary.Details,
	})
}

// HandleGetSyncStatus returns the most recent run's summary, if one is still
// retained.
func (h *SyncHandler) HandleGetSyncStatus(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.syncService.LastSummary()
	if !ok {
		utils.SendJSONError(w, "no recent sync run", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(syncResponse{
		Status:      "success",
		SyncedItems: summary.SyncedItems,
		FailedItems: summary.FailedItems,
		Details:     summary.Details,
	})
}
