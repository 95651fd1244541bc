package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/gof-esteira/oficios-api/internal/events"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/gof-esteira/oficios-api/pkg/metrics"
	"go.uber.org/zap"
)

// GateService is the process-wide pause switch over the validation
// pipeline. The level is a persisted key/value row, read by the validation
// job before each document; pausing never cancels in-flight work.
type GateService struct {
	store    store.Store
	producer *events.EventProducer
}

func NewGateService(store store.Store, producer *events.EventProducer) *GateService {
	return &GateService{store: store, producer: producer}
}

// Paused reads the current gate level. A missing control row means the gate
// was never paused.
func (s *GateService) Paused(ctx context.Context) (bool, error) {
	value, err := s.store.Pipeline().Get(ctx, model.KeyPauseValidation)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return value == model.ControlTrue, nil
}

// Pause sets the gate level. Pausing an already-paused gate is a no-op that
// still succeeds.
func (s *GateService) Pause(ctx context.Context) error {
	if err := s.store.Pipeline().Set(ctx, model.KeyPauseValidation, model.ControlTrue); err != nil {
		return err
	}
	metrics.UpdatePipelineGateMetric(true)
	s.notify(ctx, true)
	zap.S().Named("gate").Info("validation pipeline paused")
	return nil
}

// Resume clears the gate level, idempotently.
func (s *GateService) Resume(ctx context.Context) error {
	if err := s.store.Pipeline().Set(ctx, model.KeyPauseValidation, model.ControlFalse); err != nil {
		return err
	}
	metrics.UpdatePipelineGateMetric(false)
	s.notify(ctx, false)
	zap.S().Named("gate").Info("validation pipeline resumed")
	return nil
}

func (s *GateService) notify(ctx context.Context, paused bool) {
	if s.producer == nil {
		return
	}
	data := model.MakeJSONField(events.PipelineEvent{Paused: paused})
	if err := s.producer.Write(ctx, events.PipelineMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("gate").Warnw("failed to publish pipeline event", "error", err)
	}
}
