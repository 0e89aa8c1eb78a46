package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"chronicle-backend/internal/models"
	"chronicle-backend/internal/services"
)

// ---- fakes ----

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ []models.ChatMessage, _ string) (string, error) {
	return f.reply, f.err
}

type fakeEditor struct {
	editErr   error
	editRef   models.ImageReference
	visionErr error
	caption   string
	genErr    error
	genRef    models.ImageReference

	editCalls   int
	visionCalls int
	genCalls    int
}

func (f *fakeEditor) EditImage(_ context.Context, _, _ string, _ models.DecodedImage) (models.ImageReference, error) {
	f.editCalls++
	return f.editRef, f.editErr
}

func (f *fakeEditor) GenerateImage(_ context.Context, _, _ string) (models.ImageReference, error) {
	f.genCalls++
	return f.genRef, f.genErr
}

func (f *fakeEditor) DescribeImage(_ context.Context, _, _, _ string) (string, error) {
	f.visionCalls++
	return f.caption, f.visionErr
}

func (f *fakeEditor) totalCalls() int {
	return f.editCalls + f.visionCalls + f.genCalls
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return f.audio, f.err
}

// ---- helpers ----

func doRequest(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func pngDataURL(size int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, size))
}

// ---- chat ----

func TestChatSuccess(t *testing.T) {
	svc := services.NewChatService(&fakeCompleter{reply: "Mmm, let me tell you about Tulsa."}, zerolog.Nop())
	h := NewChatHandler(svc)

	rec := doRequest(t, h.Chat, http.MethodPost, "/chat", models.ChatRequest{
		Message: "What happened in Tulsa in 1921?",
		Voice:   "morgan",
		Topic:   "civil_rights",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp models.ChatResponse
	decodeBody(t, rec, &resp)
	if resp.Response != "Mmm, let me tell you about Tulsa." {
		t.Errorf("Expected provider reply, got %q", resp.Response)
	}
}

func TestChatBlankMessage(t *testing.T) {
	h := NewChatHandler(services.NewChatService(&fakeCompleter{reply: "hi"}, zerolog.Nop()))

	rec := doRequest(t, h.Chat, http.MethodPost, "/chat", models.ChatRequest{Message: "   "})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
	}
}

func TestChatInvalidBody(t *testing.T) {
	h := NewChatHandler(services.NewChatService(&fakeCompleter{reply: "hi"}, zerolog.Nop()))

	rec := doRequest(t, h.Chat, http.MethodPost, "/chat", "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestChatMissingCredentialStaysOK(t *testing.T) {
	h := NewChatHandler(services.NewChatService(nil, zerolog.Nop()))

	rec := doRequest(t, h.Chat, http.MethodPost, "/chat", models.ChatRequest{Message: "hello"})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 even without a credential, got %d", rec.Code)
	}
	var resp models.ChatResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Response, "OPENAI_API_KEY") {
		t.Errorf("Expected setup instructions, got %q", resp.Response)
	}
}

// ---- image ----

func newImageHandler(editor *fakeEditor, configured bool) *ImageHandler {
	return NewImageHandler(services.NewImageService(editor, zerolog.Nop()), configured)
}

func TestImageTransformSuccess(t *testing.T) {
	editor := &fakeEditor{editRef: "https://imgen.x.ai/out.png"}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp models.ImageTransformResult
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.TransformedImage != "https://imgen.x.ai/out.png" {
		t.Errorf("Unexpected image reference %q", resp.TransformedImage)
	}
	if resp.Note != "" {
		t.Errorf("Expected no note on a direct edit, got %q", resp.Note)
	}
}

func TestImageTransformFallbackCarriesNote(t *testing.T) {
	editor := &fakeEditor{
		editErr: errors.New("edits endpoint retired"),
		caption: "A man in his sixties with a gray beard.",
		genRef:  "https://imgen.x.ai/regen.png",
	}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp models.ImageTransformResult
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.TransformedImage != "https://imgen.x.ai/regen.png" {
		t.Errorf("Unexpected image reference %q", resp.TransformedImage)
	}
	if !strings.Contains(resp.Note, "generation fallback") {
		t.Errorf("Expected the regeneration note, got %q", resp.Note)
	}
}

func TestImageTransformMissingImage(t *testing.T) {
	editor := &fakeEditor{}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if editor.totalCalls() != 0 {
		t.Errorf("Expected no provider calls, got %d", editor.totalCalls())
	}
}

func TestImageTransformMalformedDataURL(t *testing.T) {
	editor := &fakeEditor{}
	h := newImageHandler(editor, true)

	for _, image := range []string{
		"nonsense",
		"data:image/png;base64",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,&&&&",
	} {
		rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{Image: image})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Image %q: expected 400, got %d", image, rec.Code)
		}
	}
	if editor.totalCalls() != 0 {
		t.Errorf("Expected no provider calls, got %d", editor.totalCalls())
	}
}

func TestImageTransformOversizedPayload(t *testing.T) {
	editor := &fakeEditor{}
	h := newImageHandler(editor, true)

	body := `{"image":"data:image/png;base64,` + strings.Repeat("A", maxImageBase64+4) + `"}`
	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp models.ImageTransformError
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "too large") {
		t.Errorf("Expected a size message, got %q", resp.Error)
	}
	if editor.totalCalls() != 0 {
		t.Errorf("Expected no provider calls, got %d", editor.totalCalls())
	}
}

func TestImageTransformUnconfigured(t *testing.T) {
	editor := &fakeEditor{}
	h := newImageHandler(editor, false)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp models.ImageTransformError
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "xAI API key not configured") {
		t.Errorf("Expected a configuration message, got %q", resp.Error)
	}
	if editor.totalCalls() != 0 {
		t.Errorf("Expected no provider calls, got %d", editor.totalCalls())
	}
}

func TestImageTransformExhaustedChain(t *testing.T) {
	editor := &fakeEditor{
		editErr:   errors.New("edit model retired"),
		visionErr: errors.New("vision model retired"),
	}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for recoverable exhaustion, got %d", rec.Code)
	}
	var resp models.ImageTransformResult
	decodeBody(t, rec, &resp)
	if resp.Success {
		t.Fatal("Expected success=false")
	}
	if !strings.Contains(resp.Error, "edit model retired") || !strings.Contains(resp.Error, "vision model retired") {
		t.Errorf("Expected aggregated failure detail, got %q", resp.Error)
	}
}

func TestImageTransformTerminalTimeout(t *testing.T) {
	editor := &fakeEditor{
		editErr:   context.DeadlineExceeded,
		visionErr: context.DeadlineExceeded,
	}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("Expected 504, got %d", rec.Code)
	}
	var resp models.ImageTransformError
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "smaller image") {
		t.Errorf("Expected a timeout message, got %q", resp.Error)
	}
}

func TestImageTransformTransportFailure(t *testing.T) {
	netErr := &url.Error{Op: "Post", URL: "https://api.x.ai/v1/images/edits", Err: errors.New("connection refused")}
	editor := &fakeEditor{editErr: netErr, visionErr: netErr}
	h := newImageHandler(editor, true)

	rec := doRequest(t, h.Transform, http.MethodPost, "/image/transform", models.ImageTransformRequest{
		Image: pngDataURL(64),
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
}

// ---- voice ----

func TestVoiceSuccess(t *testing.T) {
	svc := services.NewVoiceService(&fakeSynthesizer{audio: []byte("mp3 bytes")}, zerolog.Nop())
	h := NewVoiceHandler(svc, true)

	rec := doRequest(t, h.Speak, http.MethodPost, "/voice", models.VoiceRequest{Text: "Say it loud"})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp models.VoiceResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "success" {
		t.Errorf("Expected success status, got %q", resp.Status)
	}
	if len(resp.Output) != 1 || resp.Output[0] != resp.AudioURL {
		t.Errorf("Expected output[0] to match audio_url, got %v / %q", resp.Output, resp.AudioURL)
	}
	if !strings.HasPrefix(resp.AudioURL, "data:audio/mpeg;base64,") {
		t.Errorf("Expected an audio data URL, got %q", resp.AudioURL)
	}
}

func TestVoiceMissingText(t *testing.T) {
	h := NewVoiceHandler(services.NewVoiceService(&fakeSynthesizer{}, zerolog.Nop()), true)

	rec := doRequest(t, h.Speak, http.MethodPost, "/voice", models.VoiceRequest{Text: "  "})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestVoiceUnconfigured(t *testing.T) {
	h := NewVoiceHandler(services.NewVoiceService(&fakeSynthesizer{}, zerolog.Nop()), false)

	rec := doRequest(t, h.Speak, http.MethodPost, "/voice", models.VoiceRequest{Text: "hello"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp models.VoiceError
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "ElevenLabs API key not configured") {
		t.Errorf("Expected a configuration message, got %q", resp.Error)
	}
}

func TestVoiceProviderFailure(t *testing.T) {
	svc := services.NewVoiceService(&fakeSynthesizer{err: errors.New("voice limit reached")}, zerolog.Nop())
	h := NewVoiceHandler(svc, true)

	rec := doRequest(t, h.Speak, http.MethodPost, "/voice", models.VoiceRequest{Text: "hello"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp models.VoiceError
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "voice limit reached") {
		t.Errorf("Expected provider detail, got %q", resp.Error)
	}
}

// ---- content ----

func newContentHandler(t *testing.T) *ContentHandler {
	t.Helper()
	svc, err := services.NewContentService()
	if err != nil {
		t.Fatalf("Failed to load datasets: %v", err)
	}
	return NewContentHandler(svc)
}

func TestContentFrontPage(t *testing.T) {
	h := newContentHandler(t)

	rec := doRequest(t, h.Get, http.MethodGet, "/content", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var bundle models.ContentBundle
	decodeBody(t, rec, &bundle)
	if len(bundle.Facts) == 0 || len(bundle.Timeline) == 0 || len(bundle.Quiz) == 0 {
		t.Error("Expected facts, timeline and quiz on the front page")
	}
}

func TestContentByType(t *testing.T) {
	h := newContentHandler(t)

	tests := []struct {
		target string
		key    string
	}{
		{"/content?type=facts", "facts"},
		{"/content?type=timeline", "events"},
		{"/content?type=timeline&date=2-1", "events"},
		{"/content?type=quiz", "questions"},
	}

	for _, tc := range tests {
		rec := doRequest(t, h.Get, http.MethodGet, tc.target, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tc.target, rec.Code)
			continue
		}
		var body map[string]json.RawMessage
		decodeBody(t, rec, &body)
		if _, ok := body[tc.key]; !ok {
			t.Errorf("%s: expected %q in response", tc.target, tc.key)
		}
	}
}

func TestContentUnknownTypeServesFrontPage(t *testing.T) {
	h := newContentHandler(t)

	rec := doRequest(t, h.Get, http.MethodGet, "/content?type=podcast", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var bundle models.ContentBundle
	decodeBody(t, rec, &bundle)
	if len(bundle.Facts) == 0 || len(bundle.Timeline) == 0 || len(bundle.Quiz) == 0 {
		t.Error("Expected the front page bundle for an unknown type")
	}
}
