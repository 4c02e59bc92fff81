package agent

import (
	"context"
	"fmt"
	"sort"

	"taskchat/src/aisdk"
)

// ToolExecutor is a function type for tool execution
type ToolExecutor func(ctx context.Context, ownerID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)

// ToolMiddleware is a function that wraps a ToolExecutor to add functionality.
type ToolMiddleware func(next ToolExecutor) ToolExecutor

// DefaultToolbox is a type alias for the common case of heterogeneous tools.
type DefaultToolbox = Toolbox[Tool]

// Toolbox is a closed registry of named tools. The callable surface is
// exactly the registered map; there is no reflection-based dispatch.
type Toolbox[T Tool] struct {
	tools      map[string]T
	middleware []ToolMiddleware
}

// NewToolbox creates a new tool registry.
func NewToolbox[T Tool]() *Toolbox[T] {
	return &Toolbox[T]{
		tools: make(map[string]T),
	}
}

// RegisterTool registers a tool. Duplicate names are rejected.
func (tm *Toolbox[T]) RegisterTool(tool T) error {
	if tool.GetName() == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if _, exists := tm.tools[tool.GetName()]; exists {
		return fmt.Errorf("tool %s is already registered", tool.GetName())
	}

	tm.tools[tool.GetName()] = tool
	return nil
}

// RegisterMiddleware registers middleware that will be applied to all tool
// executions. Middleware is applied in registration order (first registered
// = outermost layer).
func (tm *Toolbox[T]) RegisterMiddleware(middleware ToolMiddleware) {
	tm.middleware = append(tm.middleware, middleware)
}

// Tools returns the registered tools in name order.
func (tm *Toolbox[T]) Tools() []T {
	names := make([]string, 0, len(tm.tools))
	for name := range tm.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]T, 0, len(names))
	for _, name := range names {
		out = append(out, tm.tools[name])
	}
	return out
}

// GetTool returns a specific tool by name.
func (tm *Toolbox[T]) GetTool(name string) (T, bool) {
	tool, exists := tm.tools[name]
	return tool, exists
}

// HasTool checks if a tool is available.
func (tm *Toolbox[T]) HasTool(name string) bool {
	_, exists := tm.tools[name]
	return exists
}

// ExecuteTool executes a tool call for the given owner with middleware
// applied. An unknown tool name is reported as an error response, not a
// Go error, so the orchestrator can feed it back to the model.
func (tm *Toolbox[T]) ExecuteTool(ctx context.Context, ownerID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	tool, exists := tm.tools[call.Function.Name]
	if !exists {
		return &aisdk.ToolResponse{
			Type:      "error",
			Content:   []byte(fmt.Sprintf("unknown tool: %s", call.Function.Name)),
			IsError:   true,
			ErrorKind: ErrorKindUnknownTool,
		}, nil
	}

	toolExecutor := ToolExecutor(func(ctx context.Context, ownerID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
		return tool.Execute(ctx, ownerID, call)
	})

	finalExecutor := toolExecutor
	for i := len(tm.middleware) - 1; i >= 0; i-- {
		finalExecutor = tm.middleware[i](finalExecutor)
	}

	return finalExecutor(ctx, ownerID, call)
}

// Invoke executes a tool call and folds the outcome into an Invocation
// record ready to be attached to the assistant message.
func (tm *Toolbox[T]) Invoke(ctx context.Context, ownerID string, call *aisdk.ToolCall) *Invocation {
	inv := &Invocation{
		Tool:  call.Function.Name,
		Input: call.Function.Arguments,
	}

	resp, err := tm.ExecuteTool(ctx, ownerID, call)
	if err != nil {
		inv.Error = &InvocationError{Kind: ErrorKindStore, Message: err.Error()}
		return inv
	}
	if resp.IsError {
		kind := resp.ErrorKind
		if kind == "" {
			kind = ErrorKindStore
		}
		inv.Error = &InvocationError{Kind: kind, Message: string(resp.Content)}
		return inv
	}

	inv.Success = true
	inv.Result = resp.Content
	return inv
}

// LoggingMiddleware logs tool execution details.
func LoggingMiddleware(logger interface {
	Info(msg string, args ...interface{})
}) ToolMiddleware {
	return func(next ToolExecutor) ToolExecutor {
		return func(ctx context.Context, ownerID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
			logger.Info("executing tool", "tool", call.Function.Name, "params", string(call.Function.Arguments))
			result, err := next(ctx, ownerID, call)
			if err != nil {
				logger.Info("tool execution failed", "error", err)
			}
			return result, err
		}
	}
}
