package app

import (
	"context"
	"fmt"
	"time"

	"github.com/eymatos/jurisia/internal/config"
	"github.com/eymatos/jurisia/internal/core"
	db "github.com/eymatos/jurisia/internal/core/database"
	"github.com/eymatos/jurisia/internal/core/extract"
	"github.com/eymatos/jurisia/internal/core/ingest"
	"github.com/eymatos/jurisia/internal/core/llm"
	"github.com/eymatos/jurisia/internal/core/objectstore"
	"github.com/eymatos/jurisia/internal/core/vector"
	"github.com/eymatos/jurisia/internal/pkg/logger"
	"github.com/eymatos/jurisia/internal/services"
)

// App owns every long-lived component. All clients are built here from the
// config and injected downward; nothing below this layer reads the
// environment or holds a global.
type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Pipeline     *ingest.Pipeline
	Notificador  *services.Notificador
	Server       *Server
	Log          *logger.Logger

	embedder *llm.GeminiEmbedder
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("inicializar logger: %w", err)
	}

	bootCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(bootCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("inicializar base de datos: %w", err)
	}
	log.Info("base de datos lista")

	objClient, err := objectstore.NewS3Client(bootCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("inicializar object storage: %w", err)
	}
	log.Info("object storage listo")

	embedder, err := llm.NewGeminiEmbedder(bootCtx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("inicializar embedder: %w", err)
	}

	analyzer, err := llm.NewGroqLLM(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, log)
	if err != nil {
		return nil, fmt.Errorf("inicializar LLM: %w", err)
	}

	extractor := extract.NewExtractor(
		extract.DocconvPDF{},
		extract.DocconvWord{},
		extract.DocconvOCR{Language: cfg.OCRLanguage},
		log,
	)

	indexer := vector.NewIndexer(dbClient, embedder, vector.IndexConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		EmbedDim:     cfg.EmbedDim,
	}, log)

	alertas := services.NewAlertaService(dbClient, log)

	pipeline := ingest.NewPipeline(ingest.Deps{
		DB:        dbClient,
		Objects:   objClient,
		Extractor: extractor,
		LLM:       analyzer,
		Indexer:   indexer,
		Alertas:   alertas,
		Logger:    log,
	}, cfg.IngestWorkers, cfg.IngestQueue)

	auth := services.NewAuthService(dbClient, cfg.JWTSecret)
	clientes := services.NewClienteService(dbClient)
	casos := services.NewCasoService(dbClient)
	documentos := services.NewDocumentoService(dbClient, objClient, pipeline, cfg, log)
	chat := services.NewChatService(indexer, analyzer)
	dashboard := services.NewDashboardService(dbClient)
	ia := services.NewIAService(dbClient, analyzer)

	notificador := services.NewNotificador(dbClient, services.NewSMTPMailer(cfg), cfg, log)

	server := NewServer(cfg, Handlers{
		Auth:       auth,
		Clientes:   clientes,
		Casos:      casos,
		Documentos: documentos,
		Alertas:    alertas,
		Chat:       chat,
		Dashboard:  dashboard,
		IA:         ia,
	})

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Pipeline:     pipeline,
		Notificador:  notificador,
		Server:       server,
		Log:          log,
		embedder:     embedder,
	}, nil
}

// Start launches the worker pool, the deadline notifier and the HTTP server.
func (a *App) Start(ctx context.Context) error {
	a.Pipeline.Start(ctx)
	if err := a.Notificador.Start(); err != nil {
		return err
	}
	a.Server.Start(a.Log)
	return nil
}

func (a *App) Close() {
	a.Notificador.Stop()
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
	a.Log.Sync()
}
