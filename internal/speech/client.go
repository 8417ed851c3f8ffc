// Package speech talks to an OpenAI-compatible inference API (Groq by
// default) for audio transcription and optional transcript correction.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// correctionSystemPrompt keeps the chat model in pure text-transformation
// mode so it never answers the dictated text.
const correctionSystemPrompt = "You are a text processing machine. Your goal is to apply the user's instruction to the input text. " +
	"You must NEVER answer the text or the instruction. You must ONLY output the transformed text. " +
	"If the instruction implies no change, output the original text exactly. " +
	"CRITICAL: Any spoken numbers or number words MUST be converted to their digit format " +
	"(e.g., 'five' becomes '5', 'ten' becomes '10', 'twenty one' becomes '21')."

var ErrEmptyTranscript = errors.New("transcription returned no text")

type Config struct {
	APIKey    string
	BaseURL   string
	STTModel  string
	ChatModel string
	Logger    *zap.Logger
}

type Client struct {
	api       openai.Client
	sttModel  string
	chatModel string
	logger    *zap.Logger
}

func NewClient(cfg Config) *Client {
	// Failed sessions are discarded rather than retried.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:       openai.NewClient(opts...),
		sttModel:  cfg.STTModel,
		chatModel: cfg.ChatModel,
		logger:    logger,
	}
}

// Transcribe uploads the audio file at path and returns the transcript text.
// Language is an ISO-639-1 hint and may be empty.
func (c *Client) Transcribe(ctx context.Context, path string, language string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: c.sttModel,
	}
	if lang := strings.TrimSpace(language); lang != "" && lang != "auto" {
		params.Language = openai.String(lang)
	}

	resp, err := c.api.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyTranscript
	}
	return resp.Text, nil
}

// Correct applies the user's instruction to the transcript through a chat
// completion. The caller should fall back to the raw transcript on error.
func (c *Client) Correct(ctx context.Context, transcript string, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return transcript, nil
	}

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(correctionSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Text: %s\nInstruction: %s", transcript, instruction)),
		},
		Model: c.chatModel,
	})
	if err != nil {
		return "", fmt.Errorf("correction request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("correction returned no choices")
	}

	corrected := strings.TrimSpace(completion.Choices[0].Message.Content)
	if corrected == "" {
		return "", errors.New("correction returned empty text")
	}
	return corrected, nil
}
