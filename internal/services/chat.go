package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"chronicle-backend/internal/models"
)

const (
	historyLimit = 10

	// Shown when no chat credential is configured. The server stays up and
	// the client always has a message to display.
	chatSetupMessage = "⚠️ Hey! The chatbot isn't set up yet. Add your OpenAI API key to .env:\n\nOPENAI_API_KEY=your_key_here\n\nThen restart the server."

	chatEmptyReply = "I apologize, I couldn't generate a response."
)

// ChatCompleter is the chat provider adapter contract.
type ChatCompleter interface {
	Complete(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error)
}

// ChatService answers persona chat requests. It never returns an error:
// every failure degrades into a displayable message.
type ChatService struct {
	completer ChatCompleter
	logger    zerolog.Logger
}

// NewChatService builds the service. A nil completer means the chat
// credential is absent; requests then short-circuit to setup instructions
// without any network attempt.
func NewChatService(completer ChatCompleter, logger zerolog.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		logger:    logger.With().Str("service", "chat").Logger(),
	}
}

// Respond composes the persona prompt and asks the chat provider.
func (s *ChatService) Respond(ctx context.Context, req models.ChatRequest) string {
	if s.completer == nil {
		return chatSetupMessage
	}

	prompt := ComposeSystemPrompt(req.VoiceStyle(), req.Topic)

	history := req.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	history = NormalizeHistory(history)

	reply, err := s.completer.Complete(ctx, prompt, history, req.Message)
	if err != nil {
		s.logger.Error().Err(err).Str("voice", req.VoiceStyle()).Str("topic", req.Topic).Msg("chat completion failed")
		return fmt.Sprintf("⚠️ Error connecting to AI: %s\n\nPlease check that your API key is valid and try again.", err)
	}
	if reply == "" {
		return chatEmptyReply
	}
	return reply
}
