package editor

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"rhythmoji-server/modules/common/config"
	geminiretry "rhythmoji-server/modules/common/gemini"
)

// editClient is the image-edit boundary. Tests inject fakes.
type editClient interface {
	EditImage(ctx context.Context, prompt string, image, mask []byte, model string) ([]byte, error)
}

type Service struct {
	client  editClient
	limiter *rate.Limiter
}

func NewService() *Service {
	cfg := config.GetConfig()

	log.Println("✅ [Editor] Service initialized")
	return &Service{
		client: &geminiEditClient{
			apiKeys: cfg.GeminiAPIKeys,
			model:   cfg.GeminiImageModel,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.EditRateLimit)/60.0), 1),
	}
}

// ApplyEdit runs one prompt-guided edit over the image at imagePath. When
// maskPath names an existing file the edit is scoped to that mask; otherwise
// the whole image is edited. An empty model uses the configured image model.
// The result is persisted to a uniquely-named temp file whose path is
// returned. Any failure returns "" - callers must treat that as "no change,
// keep using the prior image".
func (s *Service) ApplyEdit(ctx context.Context, imagePath, prompt, maskPath, model string) string {
	if err := s.limiter.Wait(ctx); err != nil {
		log.Printf("⚠️ [Editor] Rate limiter interrupted: %v", err)
		return ""
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		log.Printf("❌ [Editor] Failed to read input image %s: %v", imagePath, err)
		return ""
	}

	var maskData []byte
	if maskPath != "" {
		if data, err := os.ReadFile(maskPath); err == nil {
			maskData = data
			log.Printf("🎭 [Editor] Using mask: %s (%d bytes)", maskPath, len(maskData))
		} else {
			log.Printf("🎭 [Editor] Mask %s not available, editing whole image", maskPath)
		}
	}

	result, err := s.client.EditImage(ctx, prompt, imageData, maskData, model)
	if err != nil {
		log.Printf("❌ [Editor] Edit failed: %v", err)
		return ""
	}
	if len(result) == 0 {
		log.Printf("❌ [Editor] Empty edit result")
		return ""
	}

	tmpFile, err := os.CreateTemp("", "rhythmoji_edit_*.png")
	if err != nil {
		log.Printf("❌ [Editor] Failed to create temp file: %v", err)
		return ""
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(result); err != nil {
		log.Printf("❌ [Editor] Failed to write temp file: %v", err)
		os.Remove(tmpFile.Name())
		return ""
	}

	log.Printf("✅ [Editor] Edit applied: %s (%d bytes)", tmpFile.Name(), len(result))
	return tmpFile.Name()
}

const maskInstruction = "\n\nThe second image is a region mask: edit ONLY the area that is white in the mask. " +
	"Leave every other part of the figure untouched, pixel-identical to the input."

// geminiEditClient submits one edit request: prompt, source image and an
// optional mask as inline parts.
type geminiEditClient struct {
	apiKeys []string
	model   string
}

func (c *geminiEditClient) EditImage(ctx context.Context, prompt string, image, mask []byte, model string) ([]byte, error) {
	if model == "" {
		model = c.model
	}
	if mask != nil {
		prompt += maskInstruction
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, "image/png"),
	}
	if mask != nil {
		parts = append(parts, genai.NewPartFromBytes(mask, "image/png"))
	}

	content := &genai.Content{Parts: parts}

	result, err := geminiretry.GenerateContentWithRetry(
		ctx,
		c.apiKeys,
		model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: "1:1",
			},
			Temperature: floatPtr(0.45),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no image data in response")
}

func floatPtr(f float64) *float32 {
	f32 := float32(f)
	return &f32
}
