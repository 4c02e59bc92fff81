package aisdk

import (
	"context"
)

// ModelClient is the reasoning engine boundary. Implementations must be
// safe for concurrent use; the orchestrator shares one client across all
// in-flight turns.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}
