package anthropic

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// CompletionRequest is a single-turn prompt: one system prompt, one user
// prompt.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
	// Phase labels the call in cost logs.
	Phase string
}

// Complete sends a single-turn request and returns the concatenated text of
// the response.
func Complete(ctx context.Context, client Client, req CompletionRequest) (string, error) {
	if client == nil {
		return "", eris.New("anthropic: nil client")
	}
	temp := req.Temperature
	msgReq := MessageRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Messages:    []Message{{Role: "user", Content: req.User}},
		Temperature: &temp,
	}
	if req.System != "" {
		msgReq.System = []SystemBlock{{Text: req.System}}
	}

	resp, err := client.CreateMessage(ctx, msgReq)
	if err != nil {
		return "", eris.Wrapf(err, "anthropic: complete %s", req.Phase)
	}
	resp.Usage.LogCost(req.Model, req.Phase)

	return ExtractText(resp), nil
}

// ExtractText concatenates all text content blocks from a message response.
func ExtractText(resp *MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
