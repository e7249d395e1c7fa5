package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"eidbi-query-system/internal/ai"
	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/cache"
	"eidbi-query-system/internal/config"
	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/model"
	mysqlClient "eidbi-query-system/internal/platform/mysql"
	rabbitmqClient "eidbi-query-system/internal/platform/rabbitmq"
	redisClient "eidbi-query-system/internal/platform/redis"
	"eidbi-query-system/internal/repository"
	"eidbi-query-system/internal/retrieval"
	"eidbi-query-system/internal/worker"
)

type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Store           *corpus.Store
	QueryService    *app.QueryService
	IngestService   *app.IngestService
	FeedbackService *app.FeedbackService

	RefreshWorker  *worker.CorpusRefreshWorker
	FeedbackWorker *worker.FeedbackPersistWorker

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
	if err := mysqlDB.AutoMigrate(&model.Chunk{}, &model.StructuredFact{}, &model.FeedbackRecord{}); err != nil {
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

	chunkRepo := repository.NewChunkRepository(mysqlDB)
	factRepo := repository.NewFactRepository(mysqlDB)
	feedbackRepo := repository.NewFeedbackRepository(mysqlDB)

	embedCache, generator, err := buildAIStack(cfg)
	if err != nil {
		return nil, err
	}

	store := corpus.NewStore()
	retriever := retrieval.NewRetriever(embedCache, retrieval.Options{
		VectorTopN:    cfg.Retrieval.VectorTopN,
		KeywordTopM:   cfg.Retrieval.KeywordTopM,
		VectorWeight:  cfg.Retrieval.VectorWeight,
		KeywordWeight: cfg.Retrieval.KeywordWeight,
	})
	reranker := retrieval.NewReranker(cfg.Retrieval.FinalTopK)

	queryCache, err := cache.NewQueryCache[app.QueryResponse](cfg.Cache.QueryCapacity)
	if err != nil {
		return nil, err
	}
	history := cache.NewSessionHistory[app.QueryResponse](
		redisCli,
		time.Duration(cfg.Cache.HistoryTTLSeconds)*time.Second,
		cfg.Cache.HistoryMaxPerSession,
	)

	ingestService := app.NewIngestService(chunkRepo, factRepo, store, embedCache)
	queryService := app.NewQueryService(
		store,
		retriever,
		reranker,
		generator,
		queryCache,
		embedCache,
		history,
		cfg.App.Version,
		time.Duration(cfg.LLM.RequestTimeoutSeconds)*time.Second,
	)
	feedbackPublisher := rabbitmqClient.NewPublisher(mqConn, cfg.RabbitMQ.FeedbackPersistQueue)
	feedbackService := app.NewFeedbackService(feedbackPublisher, feedbackRepo)

	if err := ingestService.WarmLoad(ctx); err != nil {
		return nil, err
	}

	refreshWorker := worker.NewCorpusRefreshWorker(mqConn, ingestService, cfg.RabbitMQ.CorpusRefreshQueue)
	if err := refreshWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start corpus refresh worker failed: %w", err)
	}
	feedbackWorker := worker.NewFeedbackPersistWorker(mqConn, feedbackRepo, cfg.RabbitMQ.FeedbackPersistQueue)
	if err := feedbackWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start feedback worker failed: %w", err)
	}

	return &App{
		Config:          cfg,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		Store:           store,
		QueryService:    queryService,
		IngestService:   ingestService,
		FeedbackService: feedbackService,
		RefreshWorker:   refreshWorker,
		FeedbackWorker:  feedbackWorker,
		StartedAt:       time.Now(),
	}, nil
}

// buildAIStack picks the embedder backend and wraps both directions with the
// retry policy and the embedding cache.
func buildAIStack(cfg *config.Config) (*cache.CachingEmbedder, ai.Generator, error) {
	policy := ai.NewRetryPolicy(cfg.LLM.MaxAttempts, time.Duration(cfg.LLM.BackoffMillis)*time.Millisecond)

	var embedder ai.Embedder
	client := ai.NewOpenAICompatibleClient(ai.ClientConfig{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		RequestTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
	})
	if cfg.LLM.MockEmbeddings {
		embedder = ai.NewHashEmbedder(cfg.LLM.EmbeddingDim)
	} else {
		embedder = &ai.RetryingEmbedder{Inner: client, Policy: policy}
	}

	embedCache, err := cache.NewCachingEmbedder(embedder, cfg.Cache.EmbeddingCapacity)
	if err != nil {
		return nil, nil, err
	}
	generator := &ai.RetryingGenerator{Inner: client, Policy: policy}
	return embedCache, generator, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.RefreshWorker != nil {
		a.RefreshWorker.Close()
	}
	if a.FeedbackWorker != nil {
		a.FeedbackWorker.Close()
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
