package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"chronicle-backend/internal/models"
)

const xaiAPIBase = "https://api.x.ai/v1"

// XAIClient talks to the xAI image and vision endpoints. Call deadlines are
// owned by the caller's context, so the underlying http.Client carries no
// timeout of its own.
type XAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewXAIClient(apiKey string, logger zerolog.Logger) *XAIClient {
	return &XAIClient{
		apiKey:  apiKey,
		baseURL: xaiAPIBase,
		client:  &http.Client{},
		logger:  logger.With().Str("provider", "xai").Logger(),
	}
}

type imageResult struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// normalizeImage maps a provider image payload onto a single reference.
// The remote URL field takes precedence over inline base64; that ordering
// is a contract, not an accident.
func normalizeImage(res imageResult) (models.ImageReference, error) {
	if len(res.Data) == 0 {
		return "", fmt.Errorf("image response contains no results")
	}
	if res.Data[0].URL != "" {
		return models.ImageReference(res.Data[0].URL), nil
	}
	if res.Data[0].B64JSON != "" {
		return models.InlinePNG(res.Data[0].B64JSON), nil
	}
	return "", fmt.Errorf("image response missing both url and b64_json")
}

// EditImage uploads the original image with an editing instruction to an
// image-edit capable model.
func (c *XAIClient) EditImage(ctx context.Context, model, prompt string, img models.DecodedImage) (models.ImageReference, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "image."+img.Extension())
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := fw.Write(img.Data); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	mw.WriteField("prompt", prompt)
	mw.WriteField("model", model)
	mw.WriteField("n", "1")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &body)
	if err != nil {
		return "", fmt.Errorf("create image edit request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image edit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newProviderError("xai", resp)
	}

	var res imageResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode image edit response: %w", err)
	}

	c.logger.Info().Str("model", model).Msg("image edit succeeded")
	return normalizeImage(res)
}

// GenerateImage creates a fresh image from a text prompt.
func (c *XAIClient) GenerateImage(ctx context.Context, model, prompt string) (models.ImageReference, error) {
	payload := map[string]any{
		"model":           model,
		"prompt":          prompt,
		"n":               1,
		"response_format": "url",
	}
	res, err := c.postJSON(ctx, "/images/generations", payload)
	if err != nil {
		return "", err
	}

	var parsed imageResult
	if err := json.Unmarshal(res, &parsed); err != nil {
		return "", fmt.Errorf("decode image generation response: %w", err)
	}

	c.logger.Info().Str("model", model).Msg("image generation succeeded")
	return normalizeImage(parsed)
}

// DescribeImage asks a vision model for a caption of the supplied image.
func (c *XAIClient) DescribeImage(ctx context.Context, model, imageDataURL, instruction string) (string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "image_url", "image_url": map[string]string{"url": imageDataURL}},
					{"type": "text", "text": instruction},
				},
			},
		},
	}
	res, err := c.postJSON(ctx, "/chat/completions", payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(res, &parsed); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("vision model %s returned no description", model)
	}

	c.logger.Info().Str("model", model).Msg("vision caption succeeded")
	return parsed.Choices[0].Message.Content, nil
}

func (c *XAIClient) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError("xai", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
