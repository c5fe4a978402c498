// Package generation talks to OpenAI-compatible chat completion endpoints to
// produce explanations for selected text.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
)

// Prompt names reported back for saving
const (
	SystemDefaultPromptName = "System Default"
	CustomPromptName        = "Custom Prompt"
)

// ConfigSource provides the current model and prompt catalog
type ConfigSource interface {
	Snapshot() *config.Config
}

// Client implements engine.Definer
type Client struct {
	source ConfigSource
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a generation client. The catalog is read from source on
// every call so configuration reloads apply to the next request.
func NewClient(source ConfigSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		source: source,
		http:   httpClient,
		logger: logger,
	}
}

// Define resolves the model and prompt for req and requests a completion.
// The catalog fields of the response are filled in even on error.
func (c *Client) Define(ctx context.Context, req engine.DefineRequest) (engine.DefineResponse, error) {
	cfg := c.source.Snapshot()
	resp := Catalog(cfg)

	if len(cfg.Models) == 0 || cfg.DefaultModelID == "" {
		resp.Models = []engine.Model{}
		resp.DefaultModelID = ""
		return resp, &domain.GenerationError{Op: "resolve-model", Err: domain.ErrNoModel}
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = cfg.DefaultModelID
	}
	model, ok := cfg.Model(modelID)
	if !ok {
		return resp, &domain.GenerationError{Op: "resolve-model", Err: domain.ErrModelNotFound}
	}

	template, promptName := ResolvePrompt(cfg, req.PromptContent)
	resp.PromptName = promptName
	prompt := strings.Replace(template, "{word}", req.Word, 1)

	c.logger.Debug("requesting definition",
		"model", model.Name,
		"prompt", promptName,
		"words", engine.WordCount(req.Word),
	)

	text, err := c.complete(ctx, model, prompt)
	if err != nil {
		return resp, err
	}
	resp.Definition = text
	return resp, nil
}

// Catalog converts the configured models and prompts for the action panel
func Catalog(cfg *config.Config) engine.DefineResponse {
	resp := engine.DefineResponse{
		Models:          make([]engine.Model, 0, len(cfg.Models)),
		DefaultModelID:  cfg.DefaultModelID,
		CustomPrompts:   make([]engine.Prompt, 0, len(cfg.CustomPrompts)),
		DefaultPromptID: cfg.DefaultPromptID,
	}
	for _, m := range cfg.Models {
		resp.Models = append(resp.Models, engine.Model{ID: m.ID, Name: m.Name})
	}
	for _, p := range cfg.CustomPrompts {
		resp.CustomPrompts = append(resp.CustomPrompts, engine.Prompt{ID: p.ID, Name: p.Name, Content: p.Content})
	}
	return resp
}

// ResolvePrompt picks the prompt template and its display name: explicit
// content first, then the default custom prompt, then the built-in prompt.
func ResolvePrompt(cfg *config.Config, content string) (template, name string) {
	if content != "" {
		for _, p := range cfg.CustomPrompts {
			if p.Content == content {
				return content, p.Name
			}
		}
		return content, CustomPromptName
	}
	if cfg.DefaultPromptID != "" {
		for _, p := range cfg.CustomPrompts {
			if p.ID == cfg.DefaultPromptID {
				return p.Content, p.Name
			}
		}
	}
	return config.DefaultPrompt, SystemDefaultPromptName
}

func (c *Client) complete(ctx context.Context, model config.ModelConfig, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    model.ModelName,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, model.EndpointURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if model.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+model.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ErrorMessage(resp.StatusCode, resp.Header.Get("Content-Type"), body)
		c.logger.Debug("definition request failed", "model", model.Name, "status", resp.StatusCode, "message", msg)
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Message: msg}
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if len(chat.Choices) == 0 {
		return "", &domain.GenerationError{Op: "define", Model: model.Name, Message: "response contained no choices"}
	}
	return chat.Choices[0].Message.Content, nil
}

// ErrorMessage extracts a readable message from a failed response: the JSON
// "error" field (a string or an object with "message"), else the text body,
// else the status text.
func ErrorMessage(status int, contentType string, body []byte) string {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = fmt.Sprintf("HTTP %d", status)
	}

	if strings.Contains(contentType, "application/json") {
		var payload struct {
			Error json.RawMessage `json:"error"`
		}
		if json.Unmarshal(body, &payload) != nil || len(payload.Error) == 0 {
			return fallback
		}
		var s string
		if json.Unmarshal(payload.Error, &s) == nil {
			if s == "" {
				return fallback
			}
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
		return string(payload.Error)
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
