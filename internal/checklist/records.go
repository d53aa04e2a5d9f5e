package checklist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/utils"
)

// Коллекции и поля PocketBase
const (
	CollectionChecklists  = "checklists"
	CollectionSubmissions = "checklist_submissions"
	CollectionTemplates   = "question_templates"

	ColExternalID  = "external_id"
	ColDate        = "date"
	ColCarNumber   = "car_number"
	ColCrewNumber  = "crew_number"
	ColItemNumber  = "item_number"
	ColCrewType    = "crew_type"
	ColName        = "name"
	ColBodyDefects = "body_defects"
	ColQuestions   = "questions"
	ColDriver      = "driver"
	ColModified    = "modified"

	ColSubmissionChecklist = "checklist"
	ColSubmissionID        = "submission_id"
	ColSubmittedBy         = "submitted_by"
	ColSubmissionValues    = "values"
	ColSubmissionPreview   = "preview"
	ColPushed              = "pushed"
)

type (
	actorKey   struct{}
	previewKey struct{}
)

// WithActor attaches the id of the user performing a save.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// WithPreview marks a save as made from the preview form.
func WithPreview(ctx context.Context, preview bool) context.Context {
	return context.WithValue(ctx, previewKey{}, preview)
}

func previewFrom(ctx context.Context) bool {
	v, _ := ctx.Value(previewKey{}).(bool)
	return v
}

// RecordStore keeps checklists in the PocketBase "checklists" collection. When a
// checklist is not stored locally and a remote Source is configured, the remote
// copy is fetched and stored.
type RecordStore struct {
	app    core.App
	remote Source
	logger *zap.Logger
}

func NewRecordStore(app core.App, remote Source, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{app: app, remote: remote, logger: logger.Named("records")}
}

func (s *RecordStore) Fetch(ctx context.Context, id string) (*Checklist, error) {
	rec, err := s.findRecord(id)
	if err == nil {
		return FromRecord(rec)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if s.remote == nil {
		return nil, err
	}

	c, err := s.remote.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.Upsert(c); err != nil {
		s.logger.Warn("failed to store remote checklist", zap.String("id", id), zap.Error(err))
	}
	return c, nil
}

func (s *RecordStore) findRecord(id string) (*core.Record, error) {
	rec, err := s.app.FindFirstRecordByData(CollectionChecklists, ColExternalID, id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && rec == nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find checklist %s: %w", id, err)
	}
	return rec, nil
}

// Upsert creates or replaces the stored copy of c.
func (s *RecordStore) Upsert(c *Checklist) error {
	rec, err := s.findRecord(c.ID)
	if err != nil {
		col, err := s.app.FindCollectionByNameOrId(CollectionChecklists)
		if err != nil {
			return fmt.Errorf("checklists collection: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set(ColExternalID, c.ID)
	}
	ApplyToRecord(rec, c)
	return s.app.Save(rec)
}

// Save writes the values onto the stored checklist and logs a submission. The
// submission record is what the fleet module pushes upstream.
func (s *RecordStore) Save(ctx context.Context, id string, values FormValues) error {
	rec, err := s.findRecord(id)
	if err != nil {
		return err
	}
	current, err := FromRecord(rec)
	if err != nil {
		return err
	}
	updated := values.Apply(current)
	ApplyToRecord(rec, updated)
	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("save checklist %s: %w", id, err)
	}

	subs, err := s.app.FindCollectionByNameOrId(CollectionSubmissions)
	if err != nil {
		return fmt.Errorf("submissions collection: %w", err)
	}
	payload, err := json.Marshal(values.Encode(len(updated.Questions)))
	if err != nil {
		return err
	}
	sub := core.NewRecord(subs)
	sub.Set(ColSubmissionChecklist, rec.Id)
	sub.Set(ColSubmissionID, uuid.NewString())
	sub.Set(ColSubmissionValues, string(payload))
	sub.Set(ColSubmissionPreview, previewFrom(ctx))
	sub.Set(ColPushed, false)
	if actor := actorFrom(ctx); actor != "" {
		sub.Set(ColSubmittedBy, actor)
	}
	if err := s.app.Save(sub); err != nil {
		return fmt.Errorf("log submission for %s: %w", id, err)
	}
	s.logger.Info("checklist saved", zap.String("id", id), zap.String("submission", sub.GetString(ColSubmissionID)))
	return nil
}

// LatestModified returns the newest modification time of stored checklists.
func (s *RecordStore) LatestModified() (time.Time, error) {
	records, err := s.app.FindRecordsByFilter(CollectionChecklists, "modified > '2000-01-01'", "-modified", 1, 0)
	if err != nil {
		return time.Time{}, err
	}
	if len(records) == 0 {
		return time.Time{}, nil
	}
	return records[0].GetDateTime(ColModified).Time(), nil
}

// FromRecord converts a stored "checklists" record into the domain model.
func FromRecord(rec *core.Record) (*Checklist, error) {
	c := &Checklist{
		ID:        rec.GetString(ColExternalID),
		Date:      rec.GetDateTime(ColDate).Time(),
		CarNumber: rec.GetString(ColCarNumber),
		CrewType:  CrewType(rec.GetString(ColCrewType)),
		Name:      rec.GetString(ColName),
		Modified:  rec.GetDateTime(ColModified).Time(),
	}
	// 0 в числовом поле означает "не заполнено"
	if n := rec.GetInt(ColCrewNumber); n != 0 {
		c.CrewNumber = &n
	}
	if n := rec.GetInt(ColItemNumber); n != 0 {
		c.ItemNumber = &n
	}

	var err error
	if c.Questions, err = utils.DecodeJSONList[Question](rec.GetString(ColQuestions)); err != nil {
		return nil, fmt.Errorf("decode questions of %s: %w", c.ID, err)
	}
	if c.BodyDefects, err = utils.DecodeJSONList[BodyDefect](rec.GetString(ColBodyDefects)); err != nil {
		return nil, fmt.Errorf("decode body defects of %s: %w", c.ID, err)
	}
	return c, nil
}

func ApplyToRecord(rec *core.Record, c *Checklist) {
	if c.Date.IsZero() {
		rec.Set(ColDate, "")
	} else {
		rec.Set(ColDate, c.Date)
	}
	rec.Set(ColCarNumber, c.CarNumber)
	rec.Set(ColCrewNumber, optionalNumber(c.CrewNumber))
	rec.Set(ColItemNumber, optionalNumber(c.ItemNumber))
	rec.Set(ColCrewType, string(c.CrewType))
	rec.Set(ColName, c.Name)

	defects := c.BodyDefects
	if defects == nil {
		defects = []BodyDefect{}
	}
	questions := c.Questions
	if questions == nil {
		questions = []Question{}
	}
	rec.Set(ColBodyDefects, defects)
	rec.Set(ColQuestions, questions)
}

func optionalNumber(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
