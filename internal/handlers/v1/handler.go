package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/service"
)

type ServiceHandler struct {
	authSrv       *service.AuthService
	captureSrv    *service.CaptureService
	validationSrv *service.ValidationService
	gateSrv       *service.GateService
	documentSrv   *service.DocumentService
}

func NewServiceHandler(
	authService *service.AuthService,
	captureService *service.CaptureService,
	validationService *service.ValidationService,
	gateService *service.GateService,
	documentService *service.DocumentService,
) *ServiceHandler {
	return &ServiceHandler{
		authSrv:       authService,
		captureSrv:    captureService,
		validationSrv: validationService,
		gateSrv:       gateService,
		documentSrv:   documentService,
	}
}

// renderError maps service errors onto HTTP replies.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound       *service.ErrResourceNotFound
		invalid        *service.ErrInvalidTransition
		rejected       *service.ErrValidationRejected
		alreadyRunning *service.ErrCaptureAlreadyRunning
		notRunning     *service.ErrCaptureNotRunning
		unauthorized   *service.ErrUnauthorized
	)

	switch {
	case errors.As(err, &notFound):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusNotFound, Message: err.Error()})
	case errors.As(err, &invalid):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusConflict, Message: err.Error()})
	case errors.As(err, &rejected):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusBadRequest, Message: err.Error()})
	case errors.As(err, &alreadyRunning):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusConflict, Message: err.Error()})
	case errors.As(err, &notRunning):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusNotFound, Message: err.Error()})
	case errors.As(err, &unauthorized):
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusUnauthorized, Message: err.Error()})
	default:
		_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusInternalServerError, Message: "internal server error"})
	}
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	_ = render.Render(w, r, &api.Error{HTTPStatusCode: http.StatusBadRequest, Message: message})
}
