package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	elevenLabsAPIBase = "https://api.elevenlabs.io/v1"
	elevenLabsModelID = "eleven_monolingual_v1"
)

// ElevenLabsClient synthesizes speech through the ElevenLabs TTS API.
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewElevenLabsClient(apiKey string, logger zerolog.Logger) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: elevenLabsAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("provider", "elevenlabs").Logger(),
	}
}

// Synthesize converts text to MP3 audio using the given voice.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	payload := map[string]any{
		"text":     text,
		"model_id": elevenLabsModelID,
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError("elevenlabs", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	c.logger.Info().Str("voice", voiceID).Int("audioBytes", len(audio)).Msg("TTS synthesis complete")
	return audio, nil
}
