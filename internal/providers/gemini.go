package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"chronicle-backend/internal/models"
)

// GeminiCaptioner is an optional extra vision probe used when every xAI
// vision model is unavailable.
type GeminiCaptioner struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiCaptioner(ctx context.Context, apiKey string) (*GeminiCaptioner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.3)

	return &GeminiCaptioner{client: client, model: model}, nil
}

func (g *GeminiCaptioner) Close() {
	g.client.Close()
}

// Describe returns a caption of the image following the instruction.
func (g *GeminiCaptioner) Describe(ctx context.Context, img models.DecodedImage, instruction string) (string, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(img.Extension(), img.Data),
		genai.Text(instruction),
	)
	if err != nil {
		return "", fmt.Errorf("Gemini caption error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty description")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
