package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Extractor produces extraction payloads from an image or a free-text
// description of a table.
type Extractor interface {
	ExtractImage(ctx context.Context, data []byte, mimeType string) (*Payload, error)
	ExtractText(ctx context.Context, description string) (*Payload, error)
}

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the defaults used for unset fields.
func DefaultConfig() Config {
	return Config{
		Model:      openai.GPT4oMini,
		MaxTokens:  2000,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Client is an Extractor backed by an OpenAI-compatible chat completion API.
type Client struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

var _ Extractor = (*Client)(nil)

// NewClient creates a Client. Zero fields of cfg take their DefaultConfig
// value. A nil logger uses slog.Default().
func NewClient(cfg Config, logger *slog.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		config: cfg,
		logger: logger,
	}
}

const contractPrompt = `Devuelve SOLO un JSON válido con esta estructura exacta (sin texto adicional, sin markdown):
{
  "nombre_tabla": "nombre descriptivo de la tabla",
  "columnas": [
    {"nombre": "nombre_columna", "tipo": "numerico/categorico/fecha", "descripcion": "breve descripción"}
  ],
  "relaciones_posibles": ["posibles relaciones con otras tablas"],
  "metricas_clave": ["métricas importantes identificadas"],
  "datos_ejemplo": [["valor1", "valor2"], ["valor3", "valor4"]]
}`

const (
	imagePrompt = "Analiza esta imagen de tabla/datos. " + contractPrompt
	textPrompt  = "Analiza esta descripción de una tabla de datos. " + contractPrompt + "\n\nDescripción:\n"
)

// ExtractImage sends an image of a table to the model. mimeType defaults to
// image/jpeg.
func (c *Client) ExtractImage(ctx context.Context, data []byte, mimeType string) (*Payload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	url := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    url,
						Detail: openai.ImageURLDetailAuto,
					},
				},
				{
					Type: openai.ChatMessagePartTypeText,
					Text: imagePrompt,
				},
			},
		},
	}

	return c.complete(ctx, "image", messages)
}

// ExtractText sends a free-text description of a table to the model.
func (c *Client) ExtractText(ctx context.Context, description string) (*Payload, error) {
	if description == "" {
		return nil, fmt.Errorf("empty description")
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: textPrompt + description,
		},
	}

	return c.complete(ctx, "text", messages)
}

// complete calls the model up to MaxRetries times. Transport failures, empty
// answers and malformed payloads are all retried.
func (c *Client) complete(ctx context.Context, source string, messages []openai.ChatCompletionMessage) (*Payload, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.config.Model,
		Messages:  messages,
		MaxTokens: c.config.MaxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		c.logger.InfoContext(ctx, "sending extraction request",
			slog.String("source", source),
			slog.String("model", c.config.Model),
			slog.Int("attempt", attempt),
		)

		payload, err := c.attempt(ctx, req)
		if err == nil {
			c.logger.InfoContext(ctx, "extraction completed",
				slog.String("source", source),
				slog.Int("columns", len(payload.Columns)),
				slog.Int("attempt", attempt),
			)
			return payload, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.logger.WarnContext(ctx, "extraction attempt failed",
			slog.String("source", source),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", c.config.MaxRetries),
			slog.String("error", err.Error()),
		)

		if attempt < c.config.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}
	}

	c.logger.ErrorContext(ctx, "extraction failed",
		slog.String("source", source),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("extraction failed after %d attempts: %w", c.config.MaxRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, req openai.ChatCompletionRequest) (*Payload, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	return Parse([]byte(resp.Choices[0].Message.Content))
}

// IsUpstream reports whether err came from the model call rather than from
// the caller's input.
func IsUpstream(err error) bool {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var urlErr *url.Error
	return errors.As(err, &apiErr) ||
		errors.As(err, &reqErr) ||
		errors.As(err, &urlErr) ||
		errors.Is(err, ErrNoContent)
}
