package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type fakeSyncService struct {
	summary  models.SyncSummary
	runErr   error
	last     models.SyncSummary
	hasLast  bool
	runCalls int
}

func (f *fakeSyncService) SyncRecentPurchases(ctx context.Context) (models.SyncSummary, error) {
	f.runCalls++
	if f.runErr != nil {
		return models.SyncSummary{}, f.runErr
	}
	return f.summary, nil
}

func (f *fakeSyncService) SyncPurchases(ctx context.Context, purchases []models.Purchase) models.SyncSummary {
	return f.summary
}

func (f *fakeSyncService) LastSummary() (models.SyncSummary, bool) {
	return f.last, f.hasLast
}

func TestHandleSyncRecentPurchases(t *testing.T) {
	svc := &fakeSyncService{
		summary: models.SyncSummary{
			SyncedItems: 1,
			FailedItems: 1,
			Details: []models.SyncResult{
				{DocumentKey: "F-100", MondayID: "it-1", GroupID: "g1", Status: models.SyncStatusSuccess},
				{DocumentKey: "F-101", Status: models.SyncStatusFailed, Error: "connection reset"},
			},
		},
	}
	handler := NewSyncHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/recent-purchases", nil)
	rec := httptest.NewRecorder()
	handler.HandleSyncRecentPurchases(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, svc.runCalls)

	var body struct {
		Status      string              `json:"status"`
		SyncedItems int                 `json:"synced_items"`
		FailedItems int                 `json:"failed_items"`
		Details     []models.SyncResult `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 1, body.SyncedItems)
	assert.Equal(t, 1, body.FailedItems)
	require.Len(t, body.Details, 2)
	assert.Equal(t, "F-100", body.Details[0].DocumentKey)
	assert.Equal(t, "connection reset", body.Details[1].Error)
}

func TestHandleSyncRecentPurchasesStoreFailure(t *testing.T) {
	svc := &fakeSyncService{runErr: errors.New("sql: database is closed")}
	handler := NewSyncHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/recent-purchases", nil)
	rec := httptest.NewRecorder()
	handler.HandleSyncRecentPurchases(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "database is closed")
}

func TestHandleGetSyncStatusNoRun(t *testing.T) {
	handler := NewSyncHandler(&fakeSyncService{})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetSyncStatus(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetSyncStatusReturnsLastSummary(t *testing.T) {
	svc := &fakeSyncService{
		last: models.SyncSummary{
			SyncedItems: 3,
			Details:     []models.SyncResult{},
		},
		hasLast: true,
	}
	handler := NewSyncHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetSyncStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SyncedItems int `json:"synced_items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.SyncedItems)
}
