package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/export"
	"github.com/gof-esteira/oficios-api/internal/handlers/v1/mappers"
	"github.com/gof-esteira/oficios-api/internal/handlers/validator"
	"github.com/gof-esteira/oficios-api/internal/service"
	"go.uber.org/zap"
)

// documentFilterFromQuery validates the listing query string and builds the
// service filter from it.
func documentFilterFromQuery(r *http.Request) (*service.DocumentFilter, error) {
	query := api.DocumentQuery{
		Date:            r.URL.Query().Get("date"),
		Status:          r.URL.Query().Get("status"),
		DocType:         r.URL.Query().Get("doc_type"),
		SuggestedAction: r.URL.Query().Get("suggested_action"),
	}

	v := validator.NewValidator()
	v.Register(validator.NewDocumentQueryValidationRules()...)
	if err := v.Struct(query); err != nil {
		return nil, err
	}

	var filters []service.DocumentFilterFunc
	if query.Status != "" {
		filters = append(filters, service.WithStatus(query.Status))
	}
	if query.DocType != "" {
		filters = append(filters, service.WithDocType(query.DocType))
	}
	if query.SuggestedAction != "" {
		filters = append(filters, service.WithSuggestedAction(query.SuggestedAction))
	}
	if query.Date != "" {
		date, err := time.Parse(time.DateOnly, query.Date)
		if err != nil {
			return nil, err
		}
		filters = append(filters, service.WithDate(date))
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid limit %q", limit)
		}
		filters = append(filters, service.WithLimit(n))
	}

	return service.NewDocumentFilter(filters...), nil
}

// (GET /api/v1/documents)
func (h *ServiceHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilterFromQuery(r)
	if err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	documents, err := h.documentSrv.ListDocuments(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.DocumentListToApi(documents))
}

// (GET /api/v1/documents/pending-count)
func (h *ServiceHandler) PendingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.documentSrv.PendingCount(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, api.PendingCountReply{Pending: count})
}

// (GET /api/v1/documents/{id})
func (h *ServiceHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid document id")
		return
	}

	document, err := h.documentSrv.GetDocument(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.DocumentToApi(*document))
}

// (GET /api/v1/attachments/{id})
func (h *ServiceHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid attachment id")
		return
	}

	attachment, err := h.documentSrv.GetAttachment(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(attachment.Payload)))
	if _, err := w.Write(attachment.Payload); err != nil {
		zap.S().Named("handlers").Warnw("writing attachment response failed", "attachment_id", id, "error", err)
	}
}

// (GET /api/v1/reports/documents.xlsx)
func (h *ServiceHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilterFromQuery(r)
	if err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	documents, err := h.documentSrv.ListDocuments(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	filename := fmt.Sprintf("oficios-%s.xlsx", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteReport(w, documents); err != nil {
		zap.S().Named("handlers").Errorw("writing report failed", "error", err)
	}
}
