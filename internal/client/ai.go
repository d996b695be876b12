package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// ErrDegraded marks an AI failure that callers must absorb by falling back
// to the deterministic parse. It covers timeouts, rate limits, server errors,
// model-loading responses and malformed payloads.
var ErrDegraded = errors.New("ai normalization degraded")

// AI calls the AI-assisted name-normalization service. Every failure mode is
// reported as ErrDegraded; the client never surfaces a hard error.
type AI struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// AIConfig holds the normalization client settings.
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewAI creates an AI normalization client.
func NewAI(log *logger.Logger, cfg AIConfig) *AI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	aiModel := cfg.Model
	if aiModel == "" {
		aiModel = "gpt-4o-mini"
	}

	return &AI{
		log:        log.With("client", "ai"),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      aiModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

const normalizePrompt = `Extract structured fields from this product name. ` +
	`Respond with a single JSON object with string keys "brand", "model", ` +
	`"size" and "variant". Use empty strings for unknown fields. Product name: `

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NormalizeName asks the AI service to parse the raw product name into
// structured fields. Returns ErrDegraded on any failure.
func (a *AI) NormalizeName(ctx context.Context, rawName string) (model.NormalizedName, error) {
	var out model.NormalizedName
	if a.apiKey == "" {
		return out, fmt.Errorf("%w: no api key configured", ErrDegraded)
	}

	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "user", Content: normalizePrompt + rawName},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrDegraded, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			a.log.Debug("ai normalization timed out", "name", rawName)
		}
		return out, fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrDegraded, err)
	}

	if resp.StatusCode != http.StatusOK {
		// 503 with a loading hint is the service warming the model; the
		// other soft statuses are rate limiting and transient server errors.
		a.log.Debug("ai normalization soft failure", "status", resp.StatusCode)
		return out, fmt.Errorf("%w: http %d", ErrDegraded, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil || len(chat.Choices) == 0 {
		return out, fmt.Errorf("%w: malformed response", ErrDegraded)
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var fields struct {
		Brand   string `json:"brand"`
		Model   string `json:"model"`
		Size    string `json:"size"`
		Variant string `json:"variant"`
	}
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return out, fmt.Errorf("%w: malformed fields payload", ErrDegraded)
	}

	out.Brand = strings.TrimSpace(fields.Brand)
	out.Model = strings.TrimSpace(fields.Model)
	out.Size = strings.TrimSpace(fields.Size)
	out.Variant = strings.TrimSpace(fields.Variant)
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
