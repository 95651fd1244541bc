package v1

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/auth"
)

// (POST /api/v1/auth/login)
func (h *ServiceHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := &api.LoginForm{}
	if err := render.Bind(r, form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	session, err := h.authSrv.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.SessionReply{
		Token:    session.Token,
		Username: session.User.Username,
		FullName: session.User.FullName,
		Role:     session.User.Role,
	})
}

// (GET /api/v1/auth/me)
func (h *ServiceHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())
	_ = render.Render(w, r, api.UserReply{
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	})
}
