package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automeet/automeet/backend/internal/models"
)

func TestListActivityLogs(t *testing.T) {
	env := setupEnv(t)
	uuid, token := env.registerAndLogin(t, "ada@example.com")

	// Register + login already produced audit rows.
	w := env.request(t, http.MethodGet, "/api/v1/activity-logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	items := resp["items"].([]any)
	assert.GreaterOrEqual(t, len(items), 2)
	assert.GreaterOrEqual(t, resp["total"].(float64), float64(2))

	// Filter by action.
	w = env.request(t, http.MethodGet, "/api/v1/activity-logs?action=login&user_uuid="+uuid, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	for _, raw := range resp["items"].([]any) {
		item := raw.(map[string]any)
		assert.Equal(t, models.ActionLogin, item["action"])
	}
}

func TestGetActivityLog(t *testing.T) {
	env := setupEnv(t)
	_, token := env.registerAndLogin(t, "ada@example.com")

	var log models.ActivityLog
	require.NoError(t, env.db.First(&log).Error)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/activity-logs/%d", log.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, float64(log.ID), resp["id"])
	assert.Equal(t, log.Entity, resp["entity"])
}

func TestDeleteActivityLog_ProtectedRowsRefuse(t *testing.T) {
	env := setupEnv(t)
	_, token := env.registerAndLogin(t, "ada@example.com")

	var log models.ActivityLog
	require.NoError(t, env.db.First(&log).Error)
	require.True(t, log.DeleteProtection)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/activity-logs/%d", log.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteActivityLog_UnprotectedRow(t *testing.T) {
	env := setupEnv(t)
	_, token := env.registerAndLogin(t, "ada@example.com")

	var log models.ActivityLog
	require.NoError(t, env.db.First(&log).Error)
	require.NoError(t, env.db.Model(&log).Update("delete_protection", false).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/activity-logs/%d", log.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ActivityLog{}).Where("id = ?", log.ID).Count(&count).Error)
	assert.Zero(t, count)
}
