package agent

import "encoding/json"

// Invocation is the transient, structured outcome of one tool call. It
// lives only within one turn's processing and is discarded after being
// folded into the assistant message's tool record.
type Invocation struct {
	Tool    string           `json:"tool"`
	Input   json.RawMessage  `json:"input"`
	Success bool             `json:"success"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *InvocationError `json:"error,omitempty"`
}

// InvocationError describes a failed invocation in a shape the model can
// reason about.
type InvocationError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FeedbackContent renders the invocation as the content of a tool result
// message fed back to the model.
func (inv *Invocation) FeedbackContent() string {
	if inv.Success {
		return string(inv.Result)
	}
	msg, err := json.Marshal(inv.Error)
	if err != nil {
		return inv.Error.Message
	}
	return string(msg)
}
