package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// JWTAuth guards /api/v1 when set; nil leaves it open.
	JWTAuth *jwtauth.JWTAuth
}

func NewRouter(cfg RouterConfig, payrollHandler PayrollHandler, backupHandler BackupHandler, eventsHandler EventsHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTAuth != nil {
			r.Use(jwtauth.Verify(cfg.JWTAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(cfg.JWTAuth))
		}

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", payrollHandler.GetSettings)
			r.Patch("/", payrollHandler.UpdateSettings)
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", payrollHandler.ListRecords)
			r.Post("/", payrollHandler.CreateRecord)
			r.Delete("/", payrollHandler.ClearHistory)

			r.Get("/draft", payrollHandler.NewDraft)
			r.Post("/preview", payrollHandler.PreviewRecord)
			r.Get("/export.xlsx", payrollHandler.ExportHistory)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetRecord)
				r.Put("/", payrollHandler.UpdateRecord)
				r.Get("/payslip.pdf", payrollHandler.DownloadPayslip)
			})
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/", backupHandler.Export)
			r.Post("/import", backupHandler.Import)
		})

		r.Get("/events", eventsHandler.Stream)
	})

	return r
}
