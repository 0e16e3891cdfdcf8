// Package events holds the wire-format contract of the gateway: a tagged
// union of payload kinds wrapped in a common envelope. The catalog itself
// (payload structs and the type table) is generated by cmd/eventgen from
// schema/event-catalog.json, which is shared with the web client.
package events

import (
	"time"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
	"github.com/google/uuid"
)

// Envelope wraps every protocol message, inbound and outbound. Payload's
// concrete type is fully determined by Type.
type Envelope struct {
	Type     string    `json:"type"`
	TraceID  string    `json:"traceId"`
	TS       time.Time `json:"ts"`
	Source   string    `json:"source"`
	Severity Severity  `json:"severity"`
	Payload  any       `json:"payload"`
}

// New stamps a fresh trace id and timestamp. Trace ids are never reused
// across unrelated events.
func New(eventType, source string, severity Severity, payload any) Envelope {
	return Envelope{
		Type:     eventType,
		TraceID:  uuid.New().String(),
		TS:       time.Now().UTC(),
		Source:   source,
		Severity: severity,
		Payload:  payload,
	}
}

// NewError renders a gateway error as an error.raised envelope.
func NewError(source string, gerr *shared.GatewayError) Envelope {
	return New(TypeErrorRaised, source, SeverityError, &ErrorRaisedPayload{
		Code:        string(gerr.Code),
		Message:     gerr.Message,
		Details:     gerr.Details,
		Recoverable: gerr.Recoverable,
	})
}
