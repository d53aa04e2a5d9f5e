package fleet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/checklist"
)

// ErrNotConfigured is returned by every call while no webhook URL is set.
var ErrNotConfigured = errors.New("fleet webhook URL not configured")

// SettingsKey is the "settings" record holding the webhook URL.
const SettingsKey = "fleet_webhook"

// safetyWindow is subtracted from the newest local modification time so that
// checklists changed within the same second are not skipped.
const safetyWindow = 5 * time.Minute

// Importer stores checklists pulled from the fleet backend.
// checklist.RecordStore implements it.
type Importer interface {
	Upsert(c *checklist.Checklist) error
	LatestModified() (time.Time, error)
}

// SyncManager управляет обменом чек-листами с fleet backend
type SyncManager struct {
	webhook func() string
	client  *http.Client
	logger  *zap.Logger
}

// NewSyncManager talks to a fixed webhook URL.
func NewSyncManager(webhookURL string, logger *zap.Logger) *SyncManager {
	return newSyncManager(func() string { return webhookURL }, logger)
}

// NewAppSyncManager resolves the webhook from the "settings" collection on every
// call, falling back to the configured URL.
func NewAppSyncManager(app core.App, fallback string, logger *zap.Logger) *SyncManager {
	return newSyncManager(func() string { return WebhookURL(app, fallback) }, logger)
}

func newSyncManager(webhook func() string, logger *zap.Logger) *SyncManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncManager{
		webhook: webhook,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger.Named("fleet"),
	}
}

// WebhookURL reads the webhook from settings. An empty value falls back.
func WebhookURL(app core.App, fallback string) string {
	record, err := app.FindFirstRecordByData("settings", "key", SettingsKey)
	if err == nil && record != nil {
		if v := strings.TrimSpace(record.GetString("value")); v != "" {
			return v
		}
	}
	return fallback
}

func (s *SyncManager) Configured() bool {
	return s.webhook() != ""
}

func (s *SyncManager) call(ctx context.Context, method string, payload any) ([]byte, error) {
	base := strings.TrimRight(s.webhook(), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("fleet %s: encode payload: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/"+method, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("fleet %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fleet %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, checklist.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fleet %s: status %d", method, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Fetch implements checklist.Source.
func (s *SyncManager) Fetch(ctx context.Context, id string) (*checklist.Checklist, error) {
	resp, err := s.call(ctx, "checklist.get", map[string]any{"id": id})
	switch {
	case errors.Is(err, ErrNotConfigured):
		// без webhook работаем только с локальными данными
		return nil, fmt.Errorf("%w: %s: %w", checklist.ErrNotFound, id, err)
	case errors.Is(err, checklist.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", checklist.ErrNotFound, id)
	case err != nil:
		return nil, err
	}

	var data Response[*RemoteChecklist]
	if err := json.Unmarshal(resp, &data); err != nil {
		return nil, fmt.Errorf("fleet checklist.get: decode: %w", err)
	}
	if data.Result == nil {
		return nil, fmt.Errorf("%w: %s", checklist.ErrNotFound, id)
	}
	c, err := data.Result.ToChecklist()
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// PushSubmission sends saved values upstream. The submission id makes repeated
// pushes idempotent on the fleet side.
func (s *SyncManager) PushSubmission(ctx context.Context, p Push) error {
	resp, err := s.call(ctx, "checklist.save", p)
	if err != nil {
		return err
	}
	var data Response[bool]
	if err := json.Unmarshal(resp, &data); err != nil {
		return fmt.Errorf("fleet checklist.save: decode: %w", err)
	}
	if !data.Result {
		return fmt.Errorf("fleet checklist.save: submission %s rejected", p.SubmissionID)
	}
	s.logger.Info("submission pushed", zap.String("checklist", p.ChecklistID), zap.String("submission", p.SubmissionID))
	return nil
}

// SyncUpdates imports checklists modified since the newest local one. With an
// empty store every checklist is imported.
func (s *SyncManager) SyncUpdates(ctx context.Context, importer Importer) (int, error) {
	latest, err := importer.LatestModified()
	if err != nil {
		return 0, fmt.Errorf("latest modified: %w", err)
	}

	filter := map[string]any{}
	if latest.IsZero() {
		s.logger.Info("no modified date found, importing all checklists")
	} else {
		since := latest.Add(-safetyWindow).UTC().Format(time.RFC3339)
		filter[">modified"] = since
		s.logger.Info("checking updates", zap.String("since", since))
	}

	start := 0
	imported := 0
	var failed []string
	for {
		resp, err := s.call(ctx, "checklist.list", map[string]any{
			"start":  start,
			"filter": filter,
			"order":  map[string]string{"modified": "ASC"},
		})
		if err != nil {
			return imported, err
		}

		var data Response[[]RemoteChecklist]
		if err := json.Unmarshal(resp, &data); err != nil {
			return imported, fmt.Errorf("fleet checklist.list: decode: %w", err)
		}
		if len(data.Result) == 0 {
			break
		}

		for _, rc := range data.Result {
			c, err := rc.ToChecklist()
			if err == nil {
				err = importer.Upsert(c)
			}
			if err != nil {
				s.logger.Warn("skipping checklist", zap.String("id", string(rc.ID)), zap.Error(err))
				failed = append(failed, string(rc.ID))
				continue
			}
			imported++
		}

		if data.Next == 0 {
			break
		}
		start = data.Next
	}

	if imported > 0 || len(failed) > 0 {
		s.logger.Info("incremental sync finished", zap.Int("imported", imported), zap.Strings("failed", failed))
	} else {
		s.logger.Debug("no new updates found")
	}
	return imported, nil
}
