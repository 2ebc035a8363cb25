package orchestratornode

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

type GraphInput struct {
	Message    string
	CustomerID string
}

// GraphState is threaded through every node of one inquiry.
type GraphState struct {
	Message    string
	CustomerID string
	Now        time.Time

	Classification contractx.Classification
	Profile        Profile
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, contractx.ErrEmptyMessage
	}

	return &GraphState{
		Message:    in.Message,
		CustomerID: strings.TrimSpace(in.CustomerID),
		Now:        nowFn().UTC(),
	}, nil
}
