package generate

import (
	"context"
	"log"
	"time"

	"rhythmoji-server/modules/common/config"
	redisutil "rhythmoji-server/modules/common/redis"
)

// StartWorker runs the async queue loop: BRPOP job ids from Redis and process
// each one against the shared in-process job store. Returns immediately when
// Redis is not configured.
func StartWorker(service *Service, store *JobStore) {
	cfg := config.GetConfig()

	if cfg.RedisHost == "" {
		log.Println("⚠️ [Worker] Redis not configured, queue worker disabled")
		return
	}

	log.Println("🔄 [Worker] Redis queue worker starting...")

	rdb := redisutil.Connect(cfg)
	if rdb == nil {
		log.Println("❌ [Worker] Failed to connect to Redis, queue worker disabled")
		return
	}
	log.Println("✅ [Worker] Redis connected successfully")
	log.Printf("👀 [Worker] Watching queue: %s", jobQueueKey)

	ctx := context.Background()

	for {
		result, err := rdb.BRPop(ctx, 0, jobQueueKey).Result()
		if err != nil {
			log.Printf("❌ [Worker] Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0] is the queue name, result[1] the job id
		jobID := result[1]
		log.Printf("🎯 [Worker] Received job: %s", jobID)

		go processJob(ctx, service, store, jobID)
	}
}

// processJob runs one queued generation end to end, updating the job store
// and publishing stage progress as it goes.
func processJob(ctx context.Context, service *Service, store *JobStore, jobID string) {
	job, ok := store.Get(jobID)
	if !ok {
		log.Printf("❌ [Worker] Job %s not found in store", jobID)
		return
	}

	log.Printf("🚀 [Worker] Processing job: %s", jobID)
	store.SetStage(jobID, "planning")

	// Mirror stage transitions into the store so polling clients see them too.
	req := job.request
	resp, err := service.generateWithStageTracking(ctx, req, jobID, store)
	if err != nil {
		log.Printf("❌ [Worker] Job %s failed: %v", jobID, err)
		store.Fail(jobID, "Image generation failed")
		service.publishFinal(jobID, StatusFailed)
		return
	}

	store.Complete(jobID, resp.ImageURL, resp.FilePath)
	service.publishFinal(jobID, StatusCompleted)
	log.Printf("✅ [Worker] Job %s completed: %s", jobID, resp.FilePath)
}
