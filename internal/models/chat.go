package models

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. Older clients send
// the persona voice under "mode"; both keys are accepted.
type ChatRequest struct {
	Message string        `json:"message"`
	Voice   string        `json:"voice"`
	Mode    string        `json:"mode"`
	Topic   string        `json:"topic"`
	History []ChatMessage `json:"history"`
}

// VoiceStyle returns the requested persona voice, preferring the newer
// "voice" field over the legacy "mode" one.
func (r ChatRequest) VoiceStyle() string {
	if r.Voice != "" {
		return r.Voice
	}
	return r.Mode
}

// ChatResponse is the reply from the AI chat. The chat endpoint always
// answers 200 with a displayable message, even on failure.
type ChatResponse struct {
	Response string `json:"response"`
}
