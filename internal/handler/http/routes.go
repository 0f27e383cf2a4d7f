package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/Account/Register", h.register)
		r.Get("/Account/ConfirmEmail", h.confirmEmail)
		r.Post("/Account/ForgotPassword", h.forgotPassword)
		r.Post("/Account/ResetPassword", h.resetPassword)
		r.Post("/Account/Login", h.login)

		r.Get("/api/version", h.getVersion)
	})

	// routes that require a bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/Account/Me", h.me)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
