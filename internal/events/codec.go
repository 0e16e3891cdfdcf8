package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

// Decode parses data as an Envelope and validates it against the catalog.
// Unknown type tags and payloads that miss their bound shape are rejected
// whole with an E_PROTOCOL gateway error; an envelope is never partially
// accepted.
func Decode(data []byte) (*Envelope, error) {
	var raw struct {
		Type     string          `json:"type"`
		TraceID  string          `json:"traceId"`
		TS       time.Time       `json:"ts"`
		Source   string          `json:"source"`
		Severity Severity        `json:"severity"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shared.Protocol(fmt.Sprintf("malformed envelope: %v", err))
	}

	if raw.Type == "" {
		return nil, shared.Protocol(`missing "type"`)
	}
	spec, ok := catalog[raw.Type]
	if !ok {
		return nil, shared.Protocol(fmt.Sprintf("unknown event type %q", raw.Type))
	}
	if !oneOf(string(raw.Severity), severities...) {
		return nil, shared.Protocol(fmt.Sprintf("invalid severity %q", raw.Severity))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw.Payload, &fields); err != nil {
		return nil, shared.Protocol(fmt.Sprintf("payload for %q is not an object", raw.Type))
	}
	var missing []string
	for _, name := range spec.required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, shared.Protocol(fmt.Sprintf("payload for %q missing fields: %s", raw.Type, strings.Join(missing, ", ")))
	}

	payload := spec.newPayload()
	if err := json.Unmarshal(raw.Payload, payload); err != nil {
		return nil, shared.Protocol(fmt.Sprintf("payload for %q does not match its shape: %v", raw.Type, err))
	}
	if spec.check != nil {
		if err := spec.check(payload); err != nil {
			return nil, shared.Protocol(fmt.Sprintf("payload for %q invalid: %v", raw.Type, err))
		}
	}

	return &Envelope{
		Type:     raw.Type,
		TraceID:  raw.TraceID,
		TS:       raw.TS,
		Source:   raw.Source,
		Severity: raw.Severity,
		Payload:  payload,
	}, nil
}

// Encode is the mirror of Decode: Decode(Encode(e)) reproduces e for every
// envelope constructible from the catalog.
func Encode(e Envelope) ([]byte, error) {
	if _, ok := catalog[e.Type]; !ok {
		return nil, shared.Protocol(fmt.Sprintf("unknown event type %q", e.Type))
	}
	return json.Marshal(e)
}

// Known reports whether the type tag is a member of the closed catalog.
func Known(eventType string) bool {
	_, ok := catalog[eventType]
	return ok
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func checkEnum(field, v string, allowed ...string) error {
	if !oneOf(v, allowed...) {
		return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), v)
	}
	return nil
}

func checkLiteralBool(field string, v, want bool) error {
	if v != want {
		return fmt.Errorf("%s must be %v", field, want)
	}
	return nil
}
