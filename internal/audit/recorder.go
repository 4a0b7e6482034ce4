package audit

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/metrics"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// AuditWriteError marks a failed activity log write. It is always
// surfaced to the caller: a lost audit record is a correctness failure,
// so the recorder never swallows it to protect the primary flow.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit write: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }

// Entry describes one audited mutation.
type Entry struct {
	Previous    map[string]any // snapshot before the mutation, nil if the entity did not exist
	New         map[string]any // snapshot after the mutation, nil if the entity was removed
	Entity      string         // entity type name, e.g. "User", "Meeting"
	Action      string         // one of the models.Action* constants
	UserUUID    *string        // acting user, nil for system-initiated actions
	Description string
}

// Recorder persists activity logs through the generic store. The write is
// its own transaction, deliberately independent of the business mutation
// it describes: a recorder failure must not roll the mutation back, and a
// mutation failure leaves nothing to record.
type Recorder struct {
	logs *store.Store[models.ActivityLog]
}

// NewRecorder returns a Recorder writing to the given database.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{logs: store.New[models.ActivityLog](db)}
}

// Record diffs the entry's snapshots and persists an ActivityLog holding
// only the changed fields. The stored change columns are always JSON
// objects; an all-unchanged diff is persisted as an empty object.
func (r *Recorder) Record(entry Entry) (*models.ActivityLog, error) {
	if !models.ValidAction(entry.Action) {
		return nil, fmt.Errorf("unknown audit action %q", entry.Action)
	}

	previousChanges, newChanges := Diff(entry.Previous, entry.New)

	row := &models.ActivityLog{
		UserUUID:         entry.UserUUID,
		Entity:           entry.Entity,
		Action:           entry.Action,
		Description:      entry.Description,
		PreviousData:     toJSONMap(previousChanges),
		NewData:          toJSONMap(newChanges),
		DeleteProtection: true,
	}

	stored, err := r.logs.Create(row)
	if err != nil {
		metrics.IncAuditWriteFailure()
		logger.Log().WithError(err).WithField("entity", entry.Entity).Error("failed to create activity log")
		return nil, &AuditWriteError{Err: err}
	}
	metrics.IncAuditWrite()
	return stored, nil
}

// toJSONMap normalizes a change set for storage: the column always holds
// an object, never NULL.
func toJSONMap(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}
