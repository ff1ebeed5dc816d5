package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pdfinsight/internal/ai"
	"pdfinsight/internal/app"
	"pdfinsight/internal/cache"
	"pdfinsight/internal/config"
	"pdfinsight/internal/model"
	"pdfinsight/internal/pkg/pdfextract"
	mysqlClient "pdfinsight/internal/platform/mysql"
	rabbitmqClient "pdfinsight/internal/platform/rabbitmq"
	redisClient "pdfinsight/internal/platform/redis"
	"pdfinsight/internal/repository"
	"pdfinsight/internal/storage"
	s3store "pdfinsight/internal/storage/s3"
	supabasestore "pdfinsight/internal/storage/supabase"
	"pdfinsight/internal/worker"
)

type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	AuthService     *app.AuthService
	DocumentService *app.DocumentService
	AnalysisService *app.AnalysisService
	PreviewService  *app.PreviewService
	QAService       *app.QAService

	AnalysisWorker *worker.AnalysisWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.AnalysisJob{},
		&model.DailyUsage{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
	})

	var answerer app.Answerer = aiClient
	if cfg.QA.Mode == "mock" {
		answerer = ai.NewMockAnswerer()
	}

	userRepo := repository.NewUserRepository(mysqlDB)
	docRepo := repository.NewDocumentRepository(mysqlDB)
	chunkRepo := repository.NewChunkRepository(mysqlDB)
	jobRepo := repository.NewJobRepository(mysqlDB)
	usageRepo := repository.NewUsageRepository(mysqlDB)

	statusCache := cache.NewStatusCache(redisCli,
		time.Duration(cfg.Redis.StatusTTLSeconds)*time.Second)
	publisher := rabbitmqClient.NewJobPublisher(mqConn, cfg.RabbitMQ.AnalysisJobQueue)

	authService := app.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	documentService := app.NewDocumentService(docRepo, chunkRepo, jobRepo)
	analysisService := app.NewAnalysisService(
		docRepo, chunkRepo, jobRepo, usageRepo,
		fetcher, pdfextract.Extractor{}, aiClient, publisher, statusCache,
		cfg.Analysis.MaxPages,
		cfg.Quota.FullAnalysisDailyLimit,
	)
	previewService := app.NewPreviewService(docRepo, jobRepo, fetcher, cfg.Analysis.PreviewPages)
	qaService := app.NewQAService(
		docRepo, chunkRepo, usageRepo, answerer,
		cfg.QA.TopK, cfg.QA.MaxChars, cfg.Quota.QADailyLimit,
	)

	analysisWorker := worker.NewAnalysisWorker(mqConn, analysisService, cfg.RabbitMQ.AnalysisJobQueue)
	if err := analysisWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start analysis worker failed: %w", err)
	}

	return &App{
		Config:          cfg,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		AuthService:     authService,
		DocumentService: documentService,
		AnalysisService: analysisService,
		PreviewService:  previewService,
		QAService:       qaService,
		AnalysisWorker:  analysisWorker,
		StartedAt:       time.Now(),
	}, nil
}

func newFetcher(ctx context.Context, cfg *config.Config) (storage.Fetcher, error) {
	timeout := time.Duration(cfg.Storage.TimeoutSeconds) * time.Second
	switch cfg.Storage.Provider {
	case "supabase":
		return supabasestore.New(supabasestore.Config{
			BaseURL:        cfg.Storage.SupabaseURL,
			Bucket:         cfg.Storage.SupabaseBucket,
			ServiceRoleKey: cfg.Storage.SupabaseKey,
			Timeout:        timeout,
		})
	case "s3":
		return s3store.New(ctx, cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.S3Prefix)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AnalysisWorker != nil {
		a.AnalysisWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
