package logger

import (
	"fmt"

	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

// logDocument is the shape pushed to the search index for operational
// querying of log lines.
type logDocument struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Level       string `json:"level"`
	Message     string `json:"message"`
	Service     string `json:"service"`
	Logger      string `json:"logger"`
	Environment string `json:"environment"`
}

// MeiliHook mirrors log lines to a Meilisearch index. The mirror is
// strictly best-effort: documents are pushed from a goroutine per entry
// and push failures are dropped, never surfaced to the logging caller.
type MeiliHook struct {
	index       meilisearch.IndexManager
	service     string
	environment string
}

// NewMeiliHook connects to the search index. Returns an error when the
// index settings cannot be applied, which callers treat as "mirror
// disabled" rather than fatal.
func NewMeiliHook(url, apiKey, indexName, service, environment string) (*MeiliHook, error) {
	client := meilisearch.New(url, meilisearch.WithAPIKey(apiKey))
	index := client.Index(indexName)

	if _, err := index.UpdateFilterableAttributes(&[]string{"timestamp", "level", "service", "logger"}); err != nil {
		return nil, fmt.Errorf("update filterable attributes: %w", err)
	}
	if _, err := index.UpdateSortableAttributes(&[]string{"timestamp", "level"}); err != nil {
		return nil, fmt.Errorf("update sortable attributes: %w", err)
	}

	return &MeiliHook{index: index, service: service, environment: environment}, nil
}

// Levels implements logrus.Hook.
func (h *MeiliHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. It never blocks the caller and never
// returns a push failure.
func (h *MeiliHook) Fire(entry *logrus.Entry) error {
	doc := logDocument{
		ID:          fmt.Sprintf("%d-%s", entry.Time.UnixMilli(), entry.Level.String()),
		Timestamp:   entry.Time.Unix(),
		Level:       entry.Level.String(),
		Message:     entry.Message,
		Service:     h.service,
		Logger:      "app",
		Environment: h.environment,
	}
	if name, ok := entry.Data["logger"].(string); ok {
		doc.Logger = name
	}

	go func() {
		// Never break app flow because of logging.
		_, _ = h.index.AddDocuments([]logDocument{doc})
	}()
	return nil
}

var _ logrus.Hook = (*MeiliHook)(nil)
