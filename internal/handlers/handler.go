package handlers

import (
	"net/http"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/internal/web"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/go-playground/validator/v10"
)

// SessionHandler receives the caller's session explicitly; the middleware resolves it
// before the handler runs.
type SessionHandler func(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState)

type Handler struct {
	service  analysis.Service
	renderer *web.Renderer
	validate *validator.Validate
	logger   *logger_i.Logger
}

func NewHandler(service analysis.Service, renderer *web.Renderer) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		validate: validator.New(),
		logger:   logger_i.NewLogger("handlers"),
	}
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         Infra
// @Success      200
// @Router       /healthz [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
