package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/genai"

	"rhythmoji-server/modules/common/config"
	"rhythmoji-server/modules/common/fallback"
	geminiretry "rhythmoji-server/modules/common/gemini"
)

// textGenerator is the completion boundary. The Gemini-backed implementation
// lives below; tests inject fakes.
type textGenerator interface {
	GenerateText(ctx context.Context, systemInstruction, userPrompt string, temperature, topP float32) (string, error)
}

type Service struct {
	gen textGenerator
}

func NewService() *Service {
	cfg := config.GetConfig()

	log.Println("✅ [Planner] Service initialized")
	return &Service{
		gen: &geminiTextClient{
			apiKeys: cfg.GeminiAPIKeys,
			model:   cfg.GeminiTextModel,
		},
	}
}

// Plan derives a StylePlan from the taste signals. It never fails: any error,
// including a second unparsable reply, resolves to the fixed fallback plan.
func (s *Service) Plan(ctx context.Context, genres, artists, songs []string, creative bool) StylePlan {
	cfg := config.GetConfig()

	genres = fallback.CapList(genres, 5)
	artists = fallback.CapList(artists, 5)
	songs = fallback.CapList(songs, 5)

	temperature := float32(cfg.PlannerTemperature)
	topP := float32(cfg.PlannerTopP)
	if creative {
		temperature = float32(cfg.CreativeTemperature)
		topP = float32(cfg.CreativeTopP)
	}

	userPrompt := buildPlannerContext(genres, artists, songs)

	log.Printf("🧠 [Planner] Planning style - genres=%d artists=%d songs=%d creative=%v",
		len(genres), len(artists), len(songs), creative)

	raw, err := s.gen.GenerateText(ctx, plannerSystemInstruction, userPrompt, temperature, topP)
	if err != nil {
		log.Printf("⚠️ [Planner] Completion failed, using fallback plan: %v", err)
		return FallbackPlan()
	}

	plan, err := parsePlan(raw)
	if err == nil {
		return plan.sanitize()
	}

	log.Printf("⚠️ [Planner] Unparsable reply, retrying with JSON-only instruction: %v", err)

	raw, err = s.gen.GenerateText(ctx, plannerSystemInstruction+jsonOnlyInstruction, userPrompt, temperature, topP)
	if err != nil {
		log.Printf("⚠️ [Planner] Retry failed, using fallback plan: %v", err)
		return FallbackPlan()
	}

	plan, err = parsePlan(raw)
	if err != nil {
		log.Printf("⚠️ [Planner] Retry still unparsable, using fallback plan: %v", err)
		return FallbackPlan()
	}

	return plan.sanitize()
}

// parsePlan strips code-fence markup and decodes the strict JSON shape.
func parsePlan(raw string) (StylePlan, error) {
	cleaned := stripCodeFence(raw)

	var plan StylePlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return StylePlan{}, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	return plan, nil
}

// geminiTextClient runs one text completion through the shared retry helper.
type geminiTextClient struct {
	apiKeys []string
	model   string
}

func (c *geminiTextClient) GenerateText(ctx context.Context, systemInstruction, userPrompt string, temperature, topP float32) (string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(userPrompt),
		},
	}

	result, err := geminiretry.GenerateContentWithRetry(
		ctx,
		c.apiKeys,
		c.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{genai.NewPartFromText(systemInstruction)},
			},
			Temperature: &temperature,
			TopP:        &topP,
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	return "", fmt.Errorf("no text in response")
}
