package main

import (
	"context"
	"log"
	"time"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/internal/queue"
	"knowledgebase-backend/internal/store"

	"github.com/hibiken/asynq"
)

// One-shot CLI that enqueues a regeneration task for every approved
// document. The worker does the actual embedding; this exits as soon as the
// tasks are queued.
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

	connOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Invalid Redis configuration:", err)
	}
	tasks := asynq.NewClient(connOpt)
	defer tasks.Close()

	st := store.NewMongoStore(mongoClient, cfg.DBName)
	reindexer := queue.NewReindexer(st, tasks)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	enqueued, err := reindexer.EnqueueAll(ctx)
	if err != nil {
		log.Fatal("Reindex failed:", err)
	}

	log.Printf("Enqueued %d regeneration tasks", enqueued)
}
