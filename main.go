package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"

	"rhythmoji-server/modules/common/config"
	redisutil "rhythmoji-server/modules/common/redis"
	"rhythmoji-server/modules/editor"
	"rhythmoji-server/modules/generate"
	"rhythmoji-server/modules/pipeline"
	"rhythmoji-server/modules/planner"
	"rhythmoji-server/modules/progress"
	"rhythmoji-server/modules/search"
)

// enableCORS allows the frontend dev server to call the API directly.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "rhythmoji-server",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Component wiring: one config, explicit constructors, no globals beyond it.
	hub := progress.NewHub()
	plannerService := planner.NewService()
	editorService := editor.NewService()
	orchestrator := pipeline.NewOrchestrator(editorService, cfg.OutputDir, cfg.MasksDir)
	generateService := generate.NewService(plannerService, orchestrator, hub)
	jobStore := generate.NewJobStore()

	var queue *goredis.Client
	if cfg.RedisHost != "" {
		queue = redisutil.Connect(cfg)
	}

	generateHandler := generate.NewHandler(generateService, jobStore, queue)
	searchHandler := search.NewHandler(search.NewService())

	// Async queue worker (no-op when Redis is not configured)
	go generate.StartWorker(generateService, jobStore)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	r.HandleFunc("/api/generate", generateHandler.HandleGenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/generate/async", generateHandler.HandleGenerateAsync).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/jobs/{jobId}", generateHandler.HandleJobStatus).Methods("GET")
	r.HandleFunc("/rhythmojis/{filename}", generateHandler.HandleAsset).Methods("GET")

	r.HandleFunc("/api/search/artist", searchHandler.HandleSearchArtist).Methods("GET")
	r.HandleFunc("/api/search/song", searchHandler.HandleSearchSong).Methods("GET")

	r.HandleFunc("/ws", hub.HandleWS)

	log.Printf("🚀 Rhythmoji server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🎨 Generate: POST http://localhost:%s/api/generate", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
