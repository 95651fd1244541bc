package v1

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/handlers/validator"
	"github.com/gof-esteira/oficios-api/internal/service"
)

// (POST /api/v1/capture/start)
func (h *ServiceHandler) StartCapture(w http.ResponseWriter, r *http.Request) {
	form := &api.CaptureStartForm{}
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

	params := service.CaptureParams{Limit: form.Limit}
	if form.Since != "" {
		since, _ := time.Parse(time.DateOnly, form.Since)
		params.Since = &since
	}

	if err := h.captureSrv.Start(params); err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	_ = render.Render(w, r, api.CaptureStartedReply{Status: "started"})
}

// (POST /api/v1/capture/stop)
func (h *ServiceHandler) StopCapture(w http.ResponseWriter, r *http.Request) {
	h.captureSrv.Stop()
	_ = render.Render(w, r, api.CaptureStartedReply{Status: "stopping"})
}

// (GET /api/v1/capture/progress)
func (h *ServiceHandler) CaptureProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.captureSrv.Progress()
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.CaptureProgressReply{
		Running:    progress.Running,
		Total:      progress.Total,
		Processed:  progress.Processed,
		Duplicates: progress.Duplicates,
		Skipped:    progress.Skipped,
		StartedAt:  progress.StartedAt,
		FinishedAt: progress.FinishedAt,
		LastError:  progress.LastError,
	})
}
