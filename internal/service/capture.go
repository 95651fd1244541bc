package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/mail"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/gof-esteira/oficios-api/pkg/metrics"
	"go.uber.org/zap"
)

const defaultCaptureBatchLimit = 200

// CaptureService runs the mailbox ingestion job. At most one run is active
// at a time; a second start request is rejected, never queued.
type CaptureService struct {
	store   store.Store
	fetcher mail.Fetcher
	log     *zap.SugaredLogger

	mu       sync.Mutex
	active   bool
	cancel   context.CancelFunc
	progress *CaptureProgress
}

type CaptureParams struct {
	Limit int
	Since *time.Time
}

// CaptureProgress is a point-in-time snapshot of the current or most
// recent run.
type CaptureProgress struct {
	Running    bool       `json:"running"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

func NewCaptureService(store store.Store, fetcher mail.Fetcher) *CaptureService {
	return &CaptureService{
		store:   store,
		fetcher: fetcher,
		log:     zap.S().Named("capture"),
	}
}

// Start launches a capture run in the background. When a run is already in
// flight the request fails immediately with ErrCaptureAlreadyRunning.
func (s *CaptureService) Start(params CaptureParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return NewErrCaptureAlreadyRunning()
	}

	if params.Limit <= 0 {
		params.Limit = defaultCaptureBatchLimit
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.active = true
	s.cancel = cancel
	s.progress = &CaptureProgress{Running: true, StartedAt: time.Now()}

	metrics.IncreaseCaptureRunsMetric()
	go s.run(runCtx, params)

	return nil
}

// Stop requests a cooperative halt of the in-flight run. The run finishes
// the message it is on and exits at the next checkpoint. Stopping when no
// run is active is a no-op.
func (s *CaptureService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.cancel()
	}
}

// Progress reports the current run, or the final summary of the last one.
func (s *CaptureService) Progress() (*CaptureProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress == nil {
		return nil, NewErrCaptureNotRunning()
	}
	snapshot := *s.progress
	return &snapshot, nil
}

func (s *CaptureService) run(ctx context.Context, params CaptureParams) {
	defer s.finish()

	entries, err := s.fetcher.Fetch(ctx, params.Limit, params.Since)
	if err != nil {
		s.log.Errorw("fetching mailbox failed", "error", err)
		s.fail(err)
		return
	}
	s.count(func(p *CaptureProgress) { p.Total = len(entries) })
	s.log.Infow("capture run started", "entries", len(entries))

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			s.log.Infow("capture run stopped", "remaining", len(entries))
			return
		default:
		}

		s.ingest(ctx, entry)
	}
}

// ingest persists one relay entry. Any failure is absorbed as a skip so a
// single bad message never aborts the batch.
func (s *CaptureService) ingest(ctx context.Context, entry mail.Fetched) {
	if entry.Err != nil {
		s.log.Warnw("skipping unparsable message", "error", entry.Err)
		s.count(func(p *CaptureProgress) { p.Skipped++ })
		metrics.IncreaseDocumentsCapturedMetric("skipped")
		return
	}
	msg := entry.Message

	exists, err := s.store.Document().ExistsByMessageID(ctx, msg.MessageID)
	if err != nil {
		s.log.Warnw("dedupe lookup failed, skipping message", "message_id", msg.MessageID, "error", err)
		s.count(func(p *CaptureProgress) { p.Skipped++ })
		metrics.IncreaseDocumentsCapturedMetric("skipped")
		return
	}
	if exists {
		s.count(func(p *CaptureProgress) { p.Duplicates++ })
		metrics.IncreaseDocumentsCapturedMetric("duplicate")
		return
	}

	document := model.Document{
		ID:         uuid.New(),
		MessageID:  msg.MessageID,
		Subject:    msg.Subject,
		Sender:     msg.Sender,
		Body:       msg.Body,
		DocType:    model.DocTypeOficio,
		ReceivedAt: msg.ReceivedAt,
		Status:     model.StatusPending,
	}
	for _, a := range msg.Attachments {
		document.Attachments = append(document.Attachments, model.Attachment{
			ID:          uuid.New(),
			DocumentID:  document.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Payload:     a.Content,
		})
	}

	if _, err := s.store.Document().Create(ctx, document); err != nil {
		// A writer racing on the same Message-ID loses the unique index;
		// that is a duplicate, not a failure.
		if errors.Is(err, store.ErrDuplicateKey) {
			s.count(func(p *CaptureProgress) { p.Duplicates++ })
			metrics.IncreaseDocumentsCapturedMetric("duplicate")
			return
		}
		s.log.Warnw("storing document failed, skipping message", "message_id", msg.MessageID, "error", err)
		s.count(func(p *CaptureProgress) { p.Skipped++ })
		metrics.IncreaseDocumentsCapturedMetric("skipped")
		return
	}

	s.count(func(p *CaptureProgress) { p.Processed++ })
	metrics.IncreaseDocumentsCapturedMetric("stored")
}

func (s *CaptureService) count(update func(p *CaptureProgress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(s.progress)
}

func (s *CaptureService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.LastError = err.Error()
}

func (s *CaptureService) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.progress.Running = false
	s.progress.FinishedAt = &now
	s.active = false
	s.cancel = nil

	s.log.Infow("capture run finished",
		"processed", s.progress.Processed,
		"duplicates", s.progress.Duplicates,
		"skipped", s.progress.Skipped,
	)
}
