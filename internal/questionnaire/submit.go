package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"driver_checklist_app/internal/checklist"
)

// ErrReadOnly is returned when a user restricted to viewing tries to save.
var ErrReadOnly = errors.New("checklist is read-only for this user")

// ValidationError maps field names to translation keys of their messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.FieldNames(), ", ")
}

// FieldNames returns the failing field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate runs the required-field checks. Free-text answers are always required;
// radio answers are required only when the question says so and, when given, must
// be one of the offered options.
func Validate(cl *checklist.Checklist, values checklist.FormValues) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if cl != nil {
		for i, q := range cl.Questions {
			name := checklist.QuestionFieldName(i)
			answer := strings.TrimSpace(values.Answers[i])
			switch q.Type {
			case checklist.QuestionFreeText:
				if answer == "" {
					verr.Fields[name] = keyRequired
				}
			case checklist.QuestionVehicle, checklist.QuestionRationMVP:
				if answer == "" {
					if q.Required {
						verr.Fields[name] = keyRequired
					}
					continue
				}
				if !slices.Contains(OptionValues(q.Type), answer) {
					verr.Fields[name] = keyOption
				}
			}
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Submission is one save attempt coming from the form.
type Submission struct {
	Checklist *checklist.Checklist
	Values    checklist.FormValues
	Preview   bool
	ReadOnly  bool
}

// SubmitObserver receives submit outcomes for metrics.
type SubmitObserver interface {
	ObserveSubmit(result string, elapsed time.Duration)
}

// Submitter validates submissions and dispatches them to a Saver.
type Submitter struct {
	saver    checklist.Saver
	logger   *zap.Logger
	observer SubmitObserver
}

func NewSubmitter(saver checklist.Saver, logger *zap.Logger, observer SubmitObserver) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{saver: saver, logger: logger.Named("submit"), observer: observer}
}

// Submit saves the values. Required validation runs first unless the submission
// is a preview.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (err error) {
	start := time.Now()
	defer func() { s.observe(err, time.Since(start)) }()

	if sub.Checklist == nil {
		return checklist.ErrNotFound
	}
	if sub.ReadOnly {
		return ErrReadOnly
	}
	if !sub.Preview {
		if err := Validate(sub.Checklist, sub.Values); err != nil {
			s.logger.Debug("submission rejected",
				zap.String("checklist", sub.Checklist.ID), zap.Error(err))
			return err
		}
	}
	if err := s.saver.Save(checklist.WithPreview(ctx, sub.Preview), sub.Checklist.ID, sub.Values); err != nil {
		s.logger.Error("save failed", zap.String("checklist", sub.Checklist.ID), zap.Error(err))
		return fmt.Errorf("save checklist %s: %w", sub.Checklist.ID, err)
	}
	s.logger.Info("checklist saved",
		zap.String("checklist", sub.Checklist.ID), zap.Bool("preview", sub.Preview))
	return nil
}

func (s *Submitter) observe(err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	var verr *ValidationError
	result := "ok"
	switch {
	case err == nil:
	case errors.As(err, &verr):
		result = "invalid"
	case errors.Is(err, ErrReadOnly):
		result = "forbidden"
	default:
		result = "error"
	}
	s.observer.ObserveSubmit(result, elapsed)
}
