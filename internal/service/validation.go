package service

import (
	"context"
	"errors"
	"time"

	"github.com/gof-esteira/oficios-api/internal/classifier"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/gof-esteira/oficios-api/pkg/metrics"
	jitterbug "github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"
)

const defaultValidationBatchLimit = 50

// ValidationService drives the formality check of captured documents: it
// hands each pending, unannotated document to the classifier and records
// the verdict as an annotation plus a status change.
type ValidationService struct {
	store      store.Store
	classifier classifier.Classifier
	gate       *GateService
	log        *zap.SugaredLogger
}

type ValidationParams struct {
	Limit int
	Date  *time.Time
}

// ValidationSummary reports one run. Halted means the pause gate cut the
// run short; documents already processed stay processed.
type ValidationSummary struct {
	Processed int  `json:"processed"`
	Skipped   int  `json:"skipped"`
	Halted    bool `json:"halted"`
}

func NewValidationService(store store.Store, c classifier.Classifier, gate *GateService) *ValidationService {
	return &ValidationService{
		store:      store,
		classifier: c,
		gate:       gate,
		log:        zap.S().Named("validation"),
	}
}

// Run validates one batch of pending documents. The pause gate is re-read
// from the store before every document, so a pause issued mid-run takes
// effect at the next checkpoint.
func (s *ValidationService) Run(ctx context.Context, params ValidationParams) (*ValidationSummary, error) {
	summary := &ValidationSummary{}

	if params.Limit <= 0 {
		params.Limit = defaultValidationBatchLimit
	}

	filter := store.NewDocumentQueryFilter().
		ByStatus(model.StatusPending).
		ByUnannotated()
	if params.Date != nil {
		filter = filter.ByReceivedDate(*params.Date)
	}
	opts := store.NewDocumentQueryOptions().
		WithSortOrder(store.SortByReceivedTime).
		WithLimit(params.Limit)

	documents, err := s.store.Document().List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	for i := range documents {
		select {
		case <-ctx.Done():
			summary.Halted = true
			return summary, nil
		default:
		}

		paused, err := s.gate.Paused(ctx)
		if err != nil {
			return summary, err
		}
		if paused {
			s.log.Infow("pipeline paused, halting run", "processed", summary.Processed)
			summary.Halted = true
			return summary, nil
		}

		if s.validateOne(ctx, &documents[i]) {
			summary.Processed++
		} else {
			summary.Skipped++
		}
	}

	return summary, nil
}

// validateOne classifies and annotates a single document, reporting whether
// a verdict was recorded.
func (s *ValidationService) validateOne(ctx context.Context, document *model.Document) bool {
	names := make([]string, 0, len(document.Attachments))
	for _, a := range document.Attachments {
		names = append(names, a.Filename)
	}

	verdict, err := s.classifier.Classify(ctx, classifier.Input{
		Subject:         document.Subject,
		Body:            document.Body,
		AttachmentNames: names,
		ExtractedFields: classifier.ExtractFields(document.Subject + "\n" + document.Body),
	})
	if err != nil {
		s.log.Warnw("classification failed, skipping document", "document_id", document.ID, "error", err)
		return false
	}

	newStatus := MapVerdict(verdict)
	annotation := model.Annotation{
		SuggestedAction: verdict.Action,
		Reason:          verdict.Reason,
		Confidence:      verdict.Confidence,
		MissingFields:   verdict.MissingFields,
	}

	if err := s.store.Document().Annotate(ctx, document.ID, annotation, newStatus); err != nil {
		// A user decided on this document while the verdict was in flight.
		// The decision stands; the verdict is dropped.
		if errors.Is(err, store.ErrStaleStatus) {
			s.log.Infow("document decided concurrently, dropping verdict", "document_id", document.ID)
			return false
		}
		s.log.Warnw("annotating document failed", "document_id", document.ID, "error", err)
		return false
	}

	metrics.IncreaseClassificationsMetric(newStatus)
	return true
}

// StartSweeper runs validation batches on a jittered interval until the
// context is cancelled. The sweep is level triggered: each tick picks up
// whatever pending documents exist at that moment.
func (s *ValidationService) StartSweeper(ctx context.Context, interval time.Duration, limit int) {
	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 10})
	defer ticker.Stop()

	s.log.Infow("validation sweeper started", "interval", interval, "limit", limit)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("validation sweeper stopped")
			return
		case <-ticker.C:
			summary, err := s.Run(ctx, ValidationParams{Limit: limit})
			if err != nil {
				s.log.Errorw("validation sweep failed", "error", err)
				continue
			}
			if summary.Processed > 0 || summary.Skipped > 0 {
				s.log.Infow("validation sweep finished",
					"processed", summary.Processed,
					"skipped", summary.Skipped,
					"halted", summary.Halted,
				)
			}
		}
	}
}
