package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/cache"
	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/database"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	users  *services.UserService
}

// setupEnv wires the full handler surface against an in-memory database,
// mirroring routes.Register without the cron scheduler.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenTestDB(t)
	require.NoError(t, database.Migrate(db))

	cfg := config.Config{
		AppName:         "Automeet",
		Environment:     "test",
		JWTSecret:       "test-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}

	recorder := audit.NewRecorder(db)
	mail := services.NewMailService(cfg)
	notify := services.NewNotificationService(db, cfg)
	users := services.NewUserService(db, recorder, cfg)
	verification := services.NewVerificationService(db, recorder, cache.New(cfg), mail)
	meetings := services.NewMeetingService(db, recorder, notify)
	teams := services.NewTeamService(db, recorder, mail, notify, cfg)

	router := gin.New()
	api := router.Group("/api/v1")

	authHandler := NewAuthHandler(users, verification)
	authHandler.RegisterRoutes(api.Group("/auth"))
	NewTeamHandler(teams).RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	authHandler.RegisterAuthedRoutes(protected.Group("/auth"))
	NewUserHandler(users).RegisterRoutes(protected)
	NewMeetingHandler(meetings).RegisterRoutes(protected)
	NewTeamHandler(teams).RegisterRoutes(protected)
	NewRoleHandler(db).RegisterRoutes(protected)
	NewNotificationSettingsHandler(notify).RegisterRoutes(protected)
	NewActivityLogHandler(store.New[models.ActivityLog](db)).RegisterRoutes(protected)

	return &testEnv{router: router, db: db, users: users}
}

// registerAndLogin creates an account and returns its uuid and a bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()
	user, err := e.users.Register("Test", "User", email, "correct horse")
	require.NoError(t, err)

	_, tokens, err := e.users.Login(email, "correct horse")
	require.NoError(t, err)
	return user.UUID, tokens.AccessToken
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
