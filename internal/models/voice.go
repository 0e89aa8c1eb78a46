package models

// VoiceRequest is the payload sent to the text-to-speech endpoint.
type VoiceRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

// VoiceResponse mirrors the shape the frontend audio player expects:
// the audio data URL is carried both in output[0] and audio_url.
type VoiceResponse struct {
	Status   string   `json:"status"`
	Output   []string `json:"output"`
	AudioURL string   `json:"audio_url"`
}

// VoiceError is the flat error body for voice failures.
type VoiceError struct {
	Error string `json:"error"`
}
