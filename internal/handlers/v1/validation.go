package v1

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/handlers/validator"
	"github.com/gof-esteira/oficios-api/internal/service"
)

// (POST /api/v1/validation/run)
func (h *ServiceHandler) RunValidation(w http.ResponseWriter, r *http.Request) {
	form := &api.ValidationRunForm{}
	if r.ContentLength > 0 {
		if err := render.Bind(r, form); err != nil {
			renderBadRequest(w, r, err.Error())
			return
		}
	}

	v := validator.NewValidator()
	v.Register(validator.NewCaptureValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	params := service.ValidationParams{Limit: form.Limit}
	if form.Date != "" {
		date, _ := time.Parse(time.DateOnly, form.Date)
		params.Date = &date
	}

	summary, err := h.validationSrv.Run(r.Context(), params)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.ValidationSummaryReply{
		Processed: summary.Processed,
		Skipped:   summary.Skipped,
		Halted:    summary.Halted,
	})
}

// (POST /api/v1/pipeline/pause)
func (h *ServiceHandler) PausePipeline(w http.ResponseWriter, r *http.Request) {
	if err := h.gateSrv.Pause(r.Context()); err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, api.PipelineStatusReply{Paused: true})
}

// (POST /api/v1/pipeline/resume)
func (h *ServiceHandler) ResumePipeline(w http.ResponseWriter, r *http.Request) {
	if err := h.gateSrv.Resume(r.Context()); err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, api.PipelineStatusReply{Paused: false})
}

// (GET /api/v1/pipeline/status)
func (h *ServiceHandler) PipelineStatus(w http.ResponseWriter, r *http.Request) {
	paused, err := h.gateSrv.Paused(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, api.PipelineStatusReply{Paused: paused})
}
