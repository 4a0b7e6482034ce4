package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/cache"
	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/database"
)

// openTestDB creates a SQLite in-memory DB unique per test with every
// model migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() config.Config {
	return config.Config{
		AppName:     "Automeet",
		Environment: "test",
		JWTSecret:   "test-secret",
		// RefreshSecret left distinct to catch crossed signing keys.
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		FrontendURL:     "http://localhost:3000",
	}
}

// newTestStack wires the services the way routes.Register does, minus
// the HTTP layer. Redis and mail stay unconfigured so everything runs
// against the in-memory database alone.
func newTestStack(t *testing.T) (*gorm.DB, *UserService, *VerificationService, *MeetingService, *TeamService, *NotificationService) {
	t.Helper()
	db := openTestDB(t)
	cfg := testConfig()

	recorder := audit.NewRecorder(db)
	mail := NewMailService(cfg)
	notify := NewNotificationService(db, cfg)
	users := NewUserService(db, recorder, cfg)
	verification := NewVerificationService(db, recorder, cache.New(cfg), mail)
	meetings := NewMeetingService(db, recorder, notify)
	teams := NewTeamService(db, recorder, mail, notify, cfg)

	return db, users, verification, meetings, teams, notify
}
