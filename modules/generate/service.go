package generate

import (
	"context"
	"fmt"
	"log"

	"rhythmoji-server/modules/pipeline"
	"rhythmoji-server/modules/planner"
	"rhythmoji-server/modules/progress"
)

// stylePlanner derives the five-slot plan from taste signals.
type stylePlanner interface {
	Plan(ctx context.Context, genres, artists, songs []string, creative bool) planner.StylePlan
}

// avatarPipeline runs the edit sequence and writes the final asset.
type avatarPipeline interface {
	Run(ctx context.Context, basePath string, plan planner.StylePlan, opts pipeline.RunOptions) (string, string, error)
}

type Service struct {
	planner  stylePlanner
	pipeline avatarPipeline
	hub      *progress.Hub
}

func NewService(p stylePlanner, pl avatarPipeline, hub *progress.Hub) *Service {
	return &Service{
		planner:  p,
		pipeline: pl,
		hub:      hub,
	}
}

// Generate plans the style and runs the pipeline for one normalized request.
// jobID is optional; when set, stage transitions are published to the
// progress hub under that id.
func (s *Service) Generate(ctx context.Context, req normalizedRequest, jobID string) (*GenerateResponse, error) {
	var onStage func(stage string)
	if jobID != "" {
		onStage = func(stage string) {
			s.hub.Publish(progress.StageEvent{JobID: jobID, Stage: stage, Status: StatusProcessing})
		}
	}
	return s.run(ctx, req, onStage)
}

// generateWithStageTracking is the worker entry point: stage transitions are
// published to the hub and mirrored into the job store for polling clients.
func (s *Service) generateWithStageTracking(ctx context.Context, req normalizedRequest, jobID string, store *JobStore) (*GenerateResponse, error) {
	return s.run(ctx, req, func(stage string) {
		store.SetStage(jobID, stage)
		s.hub.Publish(progress.StageEvent{JobID: jobID, Stage: stage, Status: StatusProcessing})
	})
}

func (s *Service) publishFinal(jobID, status string) {
	s.hub.Publish(progress.StageEvent{JobID: jobID, Status: status})
}

func (s *Service) run(ctx context.Context, req normalizedRequest, onStage func(stage string)) (*GenerateResponse, error) {
	plan := s.planner.Plan(ctx, req.Genres, req.Artists, req.Songs, req.Creative)

	// Caller-supplied animal wins over the planner's choice.
	if req.Animal != "" {
		plan.Animal = req.Animal
	}

	log.Printf("🧩 [Generate] Plan: animal=%q upper=%q lower=%q shoes=%q accessory=%q",
		plan.Animal, plan.Upper, plan.Lower, plan.Shoes, plan.Accessory)

	opts := pipeline.RunOptions{
		Mode:        req.Mode,
		Model:       req.Model,
		Transparent: req.Transparent,
		OnStage:     onStage,
	}

	filePath, urlPath, err := s.pipeline.Run(ctx, req.BasePath, plan, opts)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	return &GenerateResponse{
		ImageURL: urlPath,
		FilePath: filePath,
	}, nil
}
