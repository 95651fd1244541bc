package v1

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/auth"
	"github.com/gof-esteira/oficios-api/internal/handlers/v1/mappers"
	"github.com/gof-esteira/oficios-api/internal/service"
)

const maxReceiptSize = 32 << 20

// (POST /api/v1/documents/{id}/file)
// The request is multipart: a "receipt" part with the filing proof plus an
// optional "note" field.
func (h *ServiceHandler) FileDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid document id")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		renderBadRequest(w, r, "expected a multipart form with a receipt")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		renderBadRequest(w, r, "a receipt file is required")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		renderBadRequest(w, r, "reading receipt failed")
		return
	}

	user := auth.MustHaveUser(r.Context())
	record, err := h.documentSrv.FileDocument(r.Context(), service.FileForm{
		DocumentID:      id,
		ActedBy:         user.Username,
		ReceiptFilename: header.Filename,
		ReceiptPayload:  payload,
		Note:            r.FormValue("note"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, mappers.ProtocolRecordToApi(*record))
}

// (POST /api/v1/documents/{id}/report)
func (h *ServiceHandler) ReportDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid document id")
		return
	}

	form := &api.ReportForm{}
	if err := render.Bind(r, form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	record, err := h.documentSrv.ReportDocument(r.Context(), service.ReportForm{
		DocumentID: id,
		ActedBy:    user.Username,
		Reason:     form.Reason,
		Note:       form.Note,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, mappers.ProtocolRecordToApi(*record))
}

// (POST /api/v1/documents/{id}/resolve)
func (h *ServiceHandler) ResolveDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid document id")
		return
	}

	form := &api.ResolveForm{}
	if r.ContentLength > 0 {
		if err := render.Bind(r, form); err != nil {
			renderBadRequest(w, r, err.Error())
			return
		}
	}

	user := auth.MustHaveUser(r.Context())
	record, err := h.documentSrv.ResolveDocument(r.Context(), service.ResolveForm{
		DocumentID: id,
		ActedBy:    user.Username,
		Note:       form.Note,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, mappers.ProtocolRecordToApi(*record))
}
