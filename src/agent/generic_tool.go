package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsonschema "github.com/swaggest/jsonschema-go"

	"taskchat/src/aisdk"
)

// validate is shared by every GenericTool. Field names in validation
// messages use the json tag so the model sees the names it sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GenericToolHandler is the typed handler invoked after input validation.
// ownerID is injected by the toolbox from the trusted caller context.
type GenericToolHandler[TInput any, TOutput any] func(ctx context.Context, ownerID string, input TInput) (TOutput, error)

// GenericTool adapts a typed handler into the Tool interface. The input
// schema is generated by reflection once at construction; input is
// structurally validated before the handler ever runs.
type GenericTool[TInput any, TOutput any] struct {
	Type        string
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Handler     GenericToolHandler[TInput, TOutput]
}

// GetType returns the tool type (always "function" for now)
func (gt *GenericTool[TInput, TOutput]) GetType() string {
	return gt.Type
}

// GetName returns the tool's name
func (gt *GenericTool[TInput, TOutput]) GetName() string {
	return gt.Name
}

// GetDescription returns the tool's description
func (gt *GenericTool[TInput, TOutput]) GetDescription() string {
	return gt.Description
}

// GetParameters returns the JSON schema for the tool's parameters
func (gt *GenericTool[TInput, TOutput]) GetParameters() *jsonschema.Schema {
	return gt.Schema
}

// Execute parses and validates the call arguments, then runs the handler.
// Invalid input never reaches the handler. Failures come back as error
// responses with a classified kind, not as Go errors, so the turn can
// continue.
func (gt *GenericTool[TInput, TOutput]) Execute(ctx context.Context, ownerID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	args := call.Function.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	var input TInput
	if err := json.Unmarshal(args, &input); err != nil {
		return errorResponse(ErrorKindValidation, fmt.Sprintf("failed to parse input: %v", err)), nil
	}

	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return errorResponse(ErrorKindValidation, formatValidationErrors(verrs)), nil
		}
		return errorResponse(ErrorKindValidation, err.Error()), nil
	}

	output, err := gt.Handler(ctx, ownerID, input)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return errorResponse(ErrorKindValidation, verr.Message), nil
		case errors.Is(err, ErrNotFound):
			return errorResponse(ErrorKindNotFound, err.Error()), nil
		default:
			return errorResponse(ErrorKindStore, err.Error()), nil
		}
	}

	content, err := json.Marshal(output)
	if err != nil {
		return errorResponse(ErrorKindStore, fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return &aisdk.ToolResponse{
		Type:    "success",
		Content: content,
	}, nil
}

// NewGenericTool creates a tool from a typed handler, reflecting the JSON
// schema from TInput.
func NewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) (*GenericTool[TInput, TOutput], error) {
	var input TInput
	inputType := reflect.TypeOf(input)
	if inputType == nil || inputType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool input type must be a struct")
	}

	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	return &GenericTool[TInput, TOutput]{
		Type:        "function",
		Name:        name,
		Description: description,
		Schema:      &schema,
		Handler:     handler,
	}, nil
}

// Ensure GenericTool implements the Tool interface
var _ Tool = (*GenericTool[struct{}, struct{}])(nil)

func errorResponse(kind, message string) *aisdk.ToolResponse {
	return &aisdk.ToolResponse{
		Type:      "error",
		Content:   []byte(message),
		IsError:   true,
		ErrorKind: kind,
	}
}

// formatValidationErrors turns validator errors into a reason the model
// can act on.
func formatValidationErrors(errs validator.ValidationErrors) string {
	reasons := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			reasons = append(reasons, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			reasons = append(reasons, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			reasons = append(reasons, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "oneof":
			reasons = append(reasons, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "uuid":
			reasons = append(reasons, fmt.Sprintf("%s must be a valid UUID", e.Field()))
		case "gte":
			reasons = append(reasons, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "lte":
			reasons = append(reasons, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			reasons = append(reasons, fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag()))
		}
	}
	return strings.Join(reasons, "; ")
}
