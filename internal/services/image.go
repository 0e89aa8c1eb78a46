package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"chronicle-backend/internal/fallback"
	"chronicle-backend/internal/models"
)

const (
	editTimeout   = 120 * time.Second
	visionTimeout = 60 * time.Second
	maxCaptionLen = 600

	editModelPrimary   = "grok-2-image-edit"
	editModelSecondary = "grok-2-image"
	generateModel      = "grok-2-image"

	editPrompt = "ONLY darken the skin pigmentation to a deep brown/black African skin tone. DO NOT change anything else. Keep the EXACT same: face structure, bone structure, eye shape, eye color, nose shape, nose size, lip shape, lip size, facial proportions, wrinkles, freckles, moles, hair, hairstyle, hair color, eyebrows, expression, pose, angle, lighting, clothing, background, and every other detail. This is a color adjustment ONLY - like applying a darker skin filter. The person must remain 100% recognizable as the same individual."

	visionInstruction = `FIRST state if this is a MAN or WOMAN. Then in under 350 characters total, describe: their gender, approximate age, face shape, eye shape, nose type, lip shape, facial hair (if any), hair style/color, expression, clothing, and pose. Start with "A [man/woman]..." Be very specific about gender.`

	generateSuffix = " - but with dark African/black skin tone. Keep the EXACT same gender, face, features, hair, clothes, pose. Only change skin color to deep brown/black."
)

// Ordered vision probe: first model that answers wins.
var visionModels = []string{"grok-2-vision", "grok-2-vision-1212", "grok-2-vision-latest"}

// TransformResult reports the produced image and whether it came from the
// caption+generate fallback rather than a direct edit. The client uses the
// distinction to tell a regenerated likeness from a true edit.
type TransformResult struct {
	Image       models.ImageReference
	Regenerated bool
}

// ImageEditor is the xAI adapter contract for the transform chain.
type ImageEditor interface {
	EditImage(ctx context.Context, model, prompt string, img models.DecodedImage) (models.ImageReference, error)
	GenerateImage(ctx context.Context, model, prompt string) (models.ImageReference, error)
	DescribeImage(ctx context.Context, model, imageDataURL, instruction string) (string, error)
}

// Captioner is an optional extra vision probe from a second provider.
type Captioner interface {
	Describe(ctx context.Context, img models.DecodedImage, instruction string) (string, error)
}

// ImageService runs the photo transformation fallback chain: direct edit
// on the primary model, direct edit on the secondary model, then caption
// plus regeneration. Strategies run strictly in sequence; speculative
// parallel calls to paid APIs are avoided.
type ImageService struct {
	xai     ImageEditor
	caption Captioner
	logger  zerolog.Logger
}

func NewImageService(xai ImageEditor, logger zerolog.Logger) *ImageService {
	return &ImageService{
		xai:    xai,
		logger: logger.With().Str("service", "image").Logger(),
	}
}

// UseCaptionFallback appends an extra caption probe after the xAI vision
// models.
func (s *ImageService) UseCaptionFallback(c Captioner) {
	s.caption = c
}

// Transform applies the persona skin-tone edit, falling through the chain
// until a strategy produces an image.
func (s *ImageService) Transform(ctx context.Context, img models.DecodedImage) (TransformResult, error) {
	edit := func(model string) func(ctx context.Context) (TransformResult, error) {
		return func(ctx context.Context) (TransformResult, error) {
			ref, err := s.xai.EditImage(ctx, model, editPrompt, img)
			return TransformResult{Image: ref}, err
		}
	}

	plan := []fallback.Strategy[TransformResult]{
		{
			Name:    "edit:" + editModelPrimary,
			Timeout: editTimeout,
			Run:     edit(editModelPrimary),
		},
		{
			Name:    "edit:" + editModelSecondary,
			Timeout: editTimeout,
			Run:     edit(editModelSecondary),
		},
		{
			// Budgets are applied per call inside: 60 s per vision probe,
			// 120 s for the regeneration.
			Name: "caption+generate",
			Run: func(ctx context.Context) (TransformResult, error) {
				ref, err := s.regenerateFromCaption(ctx, img)
				return TransformResult{Image: ref, Regenerated: true}, err
			},
		},
	}

	result, err := fallback.Execute(ctx, plan)
	if err != nil {
		s.logger.Warn().Err(err).Msg("image transform chain exhausted")
		return TransformResult{}, err
	}
	return result, nil
}

// describeImage probes the vision models in order and keeps the first
// description that comes back.
func (s *ImageService) describeImage(ctx context.Context, img models.DecodedImage) (string, error) {
	dataURL := img.DataURL()

	probes := make([]fallback.Strategy[string], 0, len(visionModels)+1)
	for _, model := range visionModels {
		probes = append(probes, fallback.Strategy[string]{
			Name:    "vision:" + model,
			Timeout: visionTimeout,
			Run: func(ctx context.Context) (string, error) {
				return s.xai.DescribeImage(ctx, model, dataURL, visionInstruction)
			},
		})
	}
	if s.caption != nil {
		probes = append(probes, fallback.Strategy[string]{
			Name:    "vision:gemini",
			Timeout: visionTimeout,
			Run: func(ctx context.Context) (string, error) {
				return s.caption.Describe(ctx, img, visionInstruction)
			},
		})
	}

	return fallback.Execute(ctx, probes)
}

func (s *ImageService) regenerateFromCaption(ctx context.Context, img models.DecodedImage) (models.ImageReference, error) {
	description, err := s.describeImage(ctx, img)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	if len(description) > maxCaptionLen {
		description = description[:maxCaptionLen]
	}

	genCtx, cancel := context.WithTimeout(ctx, editTimeout)
	defer cancel()
	return s.xai.GenerateImage(genCtx, generateModel, description+generateSuffix)
}
