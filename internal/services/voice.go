package services

import (
	"context"
	"encoding/base64"

	"github.com/rs/zerolog"
)

// Narrator persona voice, used when the client does not pick one.
const defaultVoiceID = "SAxJUlDKRc79XAyeWyMu"

// Synthesizer is the TTS provider adapter contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// VoiceService reads persona responses aloud. Single provider, no
// fallback chain.
type VoiceService struct {
	tts    Synthesizer
	logger zerolog.Logger
}

func NewVoiceService(tts Synthesizer, logger zerolog.Logger) *VoiceService {
	return &VoiceService{
		tts:    tts,
		logger: logger.With().Str("service", "voice").Logger(),
	}
}

// Speak synthesizes text and returns the audio as a base64 data URL.
func (s *VoiceService) Speak(ctx context.Context, text, voiceID string) (string, error) {
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	audio, err := s.tts.Synthesize(ctx, text, voiceID)
	if err != nil {
		s.logger.Error().Err(err).Str("voice", voiceID).Msg("TTS synthesis failed")
		return "", err
	}

	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}
