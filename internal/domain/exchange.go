package domain

import "time"

// ExchangeSnapshot is a read-only view of one in-flight request/response
// exchange, assembled from the bound request context.
type ExchangeSnapshot struct {
	Framework     string            `json:"framework"`
	Method        string            `json:"method"`
	Path          string            `json:"path"`
	Pattern       string            `json:"pattern"`
	Params        map[string]string `json:"params,omitempty"`
	Query         map[string]string `json:"query,omitempty"`
	RequestID     string            `json:"requestId,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Properties    map[string]any    `json:"properties"`
	CapturedAt    time.Time         `json:"capturedAt"`
}
