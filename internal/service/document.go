package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/events"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/gof-esteira/oficios-api/pkg/metrics"
	"go.uber.org/zap"
)

type DocumentService struct {
	store    store.Store
	producer *events.EventProducer
}

func NewDocumentService(store store.Store, producer *events.EventProducer) *DocumentService {
	return &DocumentService{store: store, producer: producer}
}

func (s *DocumentService) ListDocuments(ctx context.Context, filter *DocumentFilter) (model.DocumentList, error) {
	storeFilter := store.NewDocumentQueryFilter()
	if filter.Status != "" {
		storeFilter = storeFilter.ByStatus(filter.Status)
	}
	if filter.DocType != "" {
		storeFilter = storeFilter.ByDocType(filter.DocType)
	}
	if filter.SuggestedAction != "" {
		storeFilter = storeFilter.BySuggestedAction(filter.SuggestedAction)
	}
	if filter.Date != nil {
		storeFilter = storeFilter.ByReceivedDate(*filter.Date)
	}

	opts := store.NewDocumentQueryOptions().WithSortOrder(store.SortByReceivedTime)
	if filter.Limit > 0 {
		opts = opts.WithLimit(filter.Limit)
	}

	return s.store.Document().List(ctx, storeFilter, opts)
}

func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	document, err := s.store.Document().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDocumentNotFound(id)
		}
		return nil, err
	}
	return document, nil
}

// PendingCount is the dashboard indicator: every document still inside the
// esteira, regardless of any listing filter.
func (s *DocumentService) PendingCount(ctx context.Context) (int64, error) {
	filter := store.NewDocumentQueryFilter().
		ByStatusNotIn([]string{model.StatusProtocolado, model.StatusCompleted})
	return s.store.Document().Count(ctx, filter)
}

func (s *DocumentService) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	attachment, err := s.store.Attachment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAttachmentNotFound(id)
		}
		return nil, err
	}
	return attachment, nil
}

// FileDocument registers the document as formally filed: status moves to
// protocolado and an immutable protocol record holds the receipt. The
// guarded status update makes this action win over any concurrent
// annotation writer.
func (s *DocumentService) FileDocument(ctx context.Context, form FileForm) (*model.ProtocolRecord, error) {
	if form.ActedBy == "" {
		return nil, NewErrValidationRejected("acting user is required")
	}
	if form.ReceiptFilename == "" || len(form.ReceiptPayload) == 0 {
		return nil, NewErrValidationRejected("a receipt artifact is required to file a document")
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	document, err := s.store.Document().Get(ctx, form.DocumentID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDocumentNotFound(form.DocumentID)
		}
		return nil, err
	}

	if !CanFile(document.Status) {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "file")
	}

	if err := s.store.Document().UpdateStatus(ctx, form.DocumentID, fileableStatuses, model.StatusProtocolado); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrStaleStatus) {
			return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "file")
		}
		return nil, err
	}

	record, err := s.store.Protocol().Create(ctx, model.ProtocolRecord{
		ID:              uuid.New(),
		DocumentID:      form.DocumentID,
		ActedBy:         form.ActedBy,
		Action:          model.ProtocolActionFile,
		ReceiptFilename: &form.ReceiptFilename,
		ReceiptPayload:  form.ReceiptPayload,
		Note:            form.Note,
	})
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseProtocolActionsMetric(model.ProtocolActionFile)
	s.notify(ctx, form.DocumentID, model.StatusProtocolado, model.ProtocolActionFile, form.ActedBy)
	zap.S().Named("document").Infow("document filed", "document_id", form.DocumentID, "user", form.ActedBy)

	return record, nil
}

// ReportDocument flags the document as divergent. Unlike filing, reporting
// is also reachable from protocolado, and a document may accumulate several
// report records over time.
func (s *DocumentService) ReportDocument(ctx context.Context, form ReportForm) (*model.ProtocolRecord, error) {
	if form.ActedBy == "" {
		return nil, NewErrValidationRejected("acting user is required")
	}
	if form.Reason == "" {
		return nil, NewErrValidationRejected("a divergence reason is required to report a document")
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	document, err := s.store.Document().Get(ctx, form.DocumentID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDocumentNotFound(form.DocumentID)
		}
		return nil, err
	}

	if !CanReport(document.Status) {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "report")
	}

	if err := s.store.Document().UpdateStatus(ctx, form.DocumentID, reportableStatuses, model.StatusReportado); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrStaleStatus) {
			return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "report")
		}
		return nil, err
	}

	record, err := s.store.Protocol().Create(ctx, model.ProtocolRecord{
		ID:         uuid.New(),
		DocumentID: form.DocumentID,
		ActedBy:    form.ActedBy,
		Action:     model.ProtocolActionReport,
		Reason:     &form.Reason,
		Note:       form.Note,
	})
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseProtocolActionsMetric(model.ProtocolActionReport)
	s.notify(ctx, form.DocumentID, model.StatusReportado, model.ProtocolActionReport, form.ActedBy)
	zap.S().Named("document").Infow("document reported", "document_id", form.DocumentID, "user", form.ActedBy, "reason", form.Reason)

	return record, nil
}

// ResolveDocument closes a reported divergence. The trigger is external to
// the esteira; no precondition beyond the reportado status is assumed.
func (s *DocumentService) ResolveDocument(ctx context.Context, form ResolveForm) (*model.ProtocolRecord, error) {
	if form.ActedBy == "" {
		return nil, NewErrValidationRejected("acting user is required")
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	document, err := s.store.Document().Get(ctx, form.DocumentID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDocumentNotFound(form.DocumentID)
		}
		return nil, err
	}

	if !CanResolve(document.Status) {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "resolve")
	}

	if err := s.store.Document().UpdateStatus(ctx, form.DocumentID, resolvableStatuses, model.StatusCompleted); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrStaleStatus) {
			return nil, NewErrInvalidTransition(form.DocumentID, document.Status, "resolve")
		}
		return nil, err
	}

	record, err := s.store.Protocol().Create(ctx, model.ProtocolRecord{
		ID:         uuid.New(),
		DocumentID: form.DocumentID,
		ActedBy:    form.ActedBy,
		Action:     model.ProtocolActionResolve,
		Note:       form.Note,
	})
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseProtocolActionsMetric(model.ProtocolActionResolve)
	s.notify(ctx, form.DocumentID, model.StatusCompleted, model.ProtocolActionResolve, form.ActedBy)

	return record, nil
}

// RefreshStatusMetrics recomputes the per-status gauge from the store.
func (s *DocumentService) RefreshStatusMetrics(ctx context.Context) error {
	counts, err := s.store.Document().CountByStatus(ctx)
	if err != nil {
		return err
	}
	for _, status := range []string{
		model.StatusPending, model.StatusRevisao, model.StatusInvalid, model.StatusIncompleto,
		model.StatusProtocolado, model.StatusReportado, model.StatusCompleted,
	} {
		metrics.UpdateDocumentStatusCountMetric(status, counts[status])
	}
	return nil
}

func (s *DocumentService) notify(ctx context.Context, id uuid.UUID, status, action, actedBy string) {
	if s.producer == nil {
		return
	}
	data := model.MakeJSONField(events.DocumentEvent{
		DocumentID: id.String(),
		Status:     status,
		Action:     action,
		ActedBy:    actedBy,
	})
	if err := s.producer.Write(ctx, events.DocumentMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("document").Warnw("failed to publish document event", "error", err)
	}
}

type FileForm struct {
	DocumentID      uuid.UUID
	ActedBy         string
	ReceiptFilename string
	ReceiptPayload  []byte
	Note            string
}

type ReportForm struct {
	DocumentID uuid.UUID
	ActedBy    string
	Reason     string
	Note       string
}

type ResolveForm struct {
	DocumentID uuid.UUID
	ActedBy    string
	Note       string
}

type DocumentFilterFunc func(f *DocumentFilter)

type DocumentFilter struct {
	Date            *time.Time
	Status          string
	DocType         string
	SuggestedAction string
	Limit           int
}

func NewDocumentFilter(filters ...DocumentFilterFunc) *DocumentFilter {
	f := &DocumentFilter{}
	for _, fn := range filters {
		fn(f)
	}
	return f
}

func WithStatus(status string) DocumentFilterFunc {
	return func(f *DocumentFilter) {
		f.Status = status
	}
}

func WithDocType(docType string) DocumentFilterFunc {
	return func(f *DocumentFilter) {
		f.DocType = docType
	}
}

func WithSuggestedAction(action string) DocumentFilterFunc {
	return func(f *DocumentFilter) {
		f.SuggestedAction = action
	}
}

func WithDate(date time.Time) DocumentFilterFunc {
	return func(f *DocumentFilter) {
		f.Date = &date
	}
}

func WithLimit(limit int) DocumentFilterFunc {
	return func(f *DocumentFilter) {
		f.Limit = limit
	}
}
