package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"rhythmoji-server/modules/common/config"
	"rhythmoji-server/modules/common/fallback"
	"rhythmoji-server/modules/common/utils"
	"rhythmoji-server/modules/planner"
)

type Handler struct {
	service *Service
	store   *JobStore
	queue   *redis.Client // nil when Redis is not configured
}

func NewHandler(service *Service, store *JobStore, queue *redis.Client) *Handler {
	return &Handler{
		service: service,
		store:   store,
		queue:   queue,
	}
}

// HandleGenerate - POST /api/generate
// Synchronous generation: plan, run the pipeline, return the asset reference.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req, errMsg := h.parseRequest(r)
	if errMsg != "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg})
		return
	}

	log.Printf("🎨 [Generate] Request: artists=%d songs=%d genres=%d animal=%q creative=%v mode=%s",
		len(req.Artists), len(req.Songs), len(req.Genres), req.Animal, req.Creative, req.Mode)

	resp, err := h.service.Generate(r.Context(), req, "")
	if err != nil {
		log.Printf("❌ [Generate] Generation failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Image generation failed"})
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// HandleGenerateAsync - POST /api/generate/async
// Validates like the sync path, then queues the job and returns 202.
func (h *Handler) HandleGenerateAsync(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req, errMsg := h.parseRequest(r)
	if errMsg != "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg})
		return
	}

	jobID := uuid.New().String()
	h.store.Create(jobID, req)

	if h.queue != nil {
		if err := h.queue.LPush(r.Context(), jobQueueKey, jobID).Err(); err != nil {
			log.Printf("❌ [Generate] Failed to enqueue job %s: %v", jobID, err)
			h.store.Fail(jobID, "Failed to enqueue job")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to enqueue job"})
			return
		}
	} else {
		// No Redis: process in-process so the async surface still works.
		go processJob(context.Background(), h.service, h.store, jobID)
	}

	log.Printf("🎯 [Generate] Job %s queued", jobID)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"job_id": jobID,
		"status": StatusPending,
	})
}

// HandleJobStatus - GET /api/jobs/{jobId}
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	jobID := mux.Vars(r)["jobId"]
	job, ok := h.store.Get(jobID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Job not found"})
		return
	}

	json.NewEncoder(w).Encode(job)
}

// HandleAsset - GET /rhythmojis/{filename}
// Serves a generated asset; ?format=webp converts on the fly.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()

	filename := mux.Vars(r)["filename"]
	// Flat directory: reject anything that tries to traverse out of it.
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filename))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "webp" {
		webpData, err := utils.ConvertPNGToWebP(data, 90.0)
		if err == nil {
			w.Header().Set("Content-Type", "image/webp")
			w.Write(webpData)
			return
		}
		log.Printf("⚠️ [Generate] WebP conversion failed, serving PNG: %v", err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// parseRequest decodes and normalizes the request body. A non-empty return
// message means a 400-level validation failure.
func (h *Handler) parseRequest(r *http.Request) (normalizedRequest, string) {
	cfg := config.GetConfig()

	var raw GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return normalizedRequest{}, "Invalid JSON"
	}

	basePath := strings.TrimSpace(raw.BaseImage)
	if basePath == "" {
		basePath = cfg.BaseImage
	}
	if _, err := os.Stat(basePath); err != nil {
		return normalizedRequest{}, fmt.Sprintf("Base image not found at %s", basePath)
	}

	mode := strings.TrimSpace(raw.Mode)
	if mode == "" {
		mode = "staged"
	}

	return normalizedRequest{
		Artists:     fallback.NormalizeTextList(raw.Artists),
		Songs:       fallback.NormalizeSongList(raw.Songs),
		Genres:      fallback.NormalizeTextList(raw.Genres),
		Animal:      planner.SanitizeSlot(raw.Animal),
		Creative:    raw.Creative,
		BasePath:    basePath,
		Mode:        mode,
		Model:       strings.TrimSpace(raw.Model),
		Transparent: raw.Transparent,
	}, ""
}
