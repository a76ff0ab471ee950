package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eymatos/jurisia/internal/api/handlers"
	"github.com/eymatos/jurisia/internal/api/middlewares"
	"github.com/eymatos/jurisia/internal/config"
	"github.com/eymatos/jurisia/internal/pkg/logger"
	"github.com/eymatos/jurisia/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

type Handlers struct {
	Auth       *services.AuthService
	Clientes   *services.ClienteService
	Casos      *services.CasoService
	Documentos *services.DocumentoService
	Alertas    *services.AlertaService
	Chat       *services.ChatService
	Dashboard  *services.DashboardService
	IA         *services.IAService
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, h Handlers) *Server {
	authHandler := handlers.NewAuthHandler(h.Auth)
	clienteHandler := handlers.NewClienteHandler(h.Clientes)
	casoHandler := handlers.NewCasoHandler(h.Casos)
	docHandler := handlers.NewDocumentoHandler(h.Documentos)
	alertaHandler := handlers.NewAlertaHandler(h.Alertas)
	chatHandler := handlers.NewChatHandler(h.Chat)
	dashboardHandler := handlers.NewDashboardHandler(h.Dashboard)
	iaHandler := handlers.NewIAHandler(h.IA)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/auth/registro", authHandler.Registro)
		api.Post("/auth/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(middlewares.JWT(cfg.JWTSecret))

			protected.Get("/dashboard/estadisticas", dashboardHandler.Estadisticas)

			protected.Get("/clientes", clienteHandler.Listar)
			protected.Get("/clientes/{id}", clienteHandler.Obtener)

			protected.Get("/casos", casoHandler.Listar)
			protected.Get("/casos/{id}", casoHandler.Obtener)

			protected.Get("/casos/{casoId}/documentos", docHandler.PorCaso)
			protected.Get("/casos/{casoId}/documentos/buscar", docHandler.Buscar)
			protected.Get("/documentos/{id}", docHandler.Obtener)

			protected.Get("/casos/{casoId}/alertas", alertaHandler.PorCaso)
			protected.Get("/alertas/urgentes", alertaHandler.Urgentes)

			protected.Post("/casos/{casoId}/chat/preguntar", chatHandler.PreguntarSobreCaso)
			protected.Post("/chat/global", chatHandler.PreguntarGlobal)
			protected.Post("/chat/consulta-general", chatHandler.ConsultaGeneral)

			// mutating routes are for lawyers and admins
			protected.Group(func(abogados chi.Router) {
				abogados.Use(middlewares.RequireRol("abogado"))

				abogados.Post("/clientes", clienteHandler.Crear)
				abogados.Post("/casos", casoHandler.Crear)
				abogados.Post("/documentos/upload", docHandler.Subir)
				abogados.Post("/documentos/{id}/reprocesar", docHandler.Reprocesar)
				abogados.Post("/alertas", alertaHandler.Crear)
				abogados.Patch("/alertas/{id}/completar", alertaHandler.Completar)
				abogados.Delete("/alertas/{id}", alertaHandler.Eliminar)
				abogados.Post("/ia/redactar", iaHandler.Redactar)
			})
		})
	})

	return &Server{httpServer: &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}}
}

// Start runs the HTTP server in its own goroutine.
func (s *Server) Start(log *logger.Logger) {
	go func() {
		log.Info("servidor HTTP escuchando", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("servidor HTTP terminó con error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
