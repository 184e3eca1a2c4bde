package main

import (
	"context"
	"log"
	"time"

	"knowledgebase-backend/internal/ai"
	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/internal/queue"
	"knowledgebase-backend/internal/store"
	"knowledgebase-backend/services"

	"github.com/go-co-op/gocron"
	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	aiClient, err := ai.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize AI client:", err)
	}
	defer aiClient.Close()

	st := store.NewMongoStore(mongoClient, cfg.DBName)
	embeddings := services.NewEmbeddingService(st, st, aiClient, cfg.MaxChunkSize)
	processor := queue.NewTaskProcessor(embeddings)

	connOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Invalid Redis configuration:", err)
	}

	tasks := asynq.NewClient(connOpt)
	defer tasks.Close()
	reindexer := queue.NewReindexer(st, tasks)

	// Nightly sweep catches documents whose fire-and-forget regeneration
	// was lost or failed past its retry budget.
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Cron(cfg.ReindexCron).Tag("reindex-sweep").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := reindexer.EnqueueAll(ctx); err != nil {
			logger.Error("reindex sweep failed", "error", err)
		}
	}); err != nil {
		log.Fatal("Failed to schedule reindex sweep:", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	server := asynq.NewServer(
		connOpt,
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskRegenerateEmbeddings, processor.HandleRegenerate)

	logger.Info("worker starting", "concurrency", cfg.WorkerConcurrency, "reindex_cron", cfg.ReindexCron)
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
