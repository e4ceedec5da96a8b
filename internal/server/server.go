package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/handlers"
	"github.com/akolanti/CSVAgent/internal/middleware"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	http   *http.Server
	logger *logger_i.Logger
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	StopWorkers      func()
	CloseServices    context.CancelFunc
}

// Routes wires the HTML page, the JSON API and the infra endpoints.
func Routes(h *handlers.Handler, mw *middleware.Chain) http.Handler {
	r := utils.NewRouter()

	r.Router.Get("/healthz", h.HealthHandler)

	r.Router.Get("/", mw.Page(h.IndexPage))
	r.Router.Post("/upload", mw.Page(h.UploadPage))
	r.Router.Post("/select", mw.Page(h.SelectPage))
	r.Router.Post("/ask", mw.Page(h.AskPage))

	r.Router.Route("/api", func(api chi.Router) {
		api.Post("/archives", mw.API(h.PostArchiveHandler))
		api.Get("/session", mw.API(h.GetSessionHandler))
		api.Put("/selection", mw.API(h.PutSelectionHandler))
		api.Post("/questions", mw.API(h.PostQuestionHandler))
		api.Get("/preview", mw.API(h.GetPreviewHandler))
		api.Get("/interactions", mw.Wrap(h.GetInteractionsHandler))
	})
	return r.Router
}

func CreateServer(listenAddr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

func (s *Server) ListenAndServe() {
	s.logger.Info("Server is listening at", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err.Error(), "addr", s.http.Addr)
	}
}

func (s *Server) ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	s.logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		s.http.SetKeepAlivesEnabled(false)

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		shutdownParams.StopWorkers()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Gracefully shut down")
	case <-ctx.Done():
		s.logger.Error("Force shut down")
		os.Exit(1)
	}
}
