package store

import (
	"encoding/json"
	"fmt"
)

// Envelope version tracking:
// 0 - Bare state JSON (pre-envelope payloads)
// 1 - {"schema_version": 1, "state": {...}}
const EnvelopeVersion = 1

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	State         json.RawMessage `json:"state"`
}

// VersionError reports a payload written by a newer build than this one
// supports. Callers should treat the snapshot as unusable rather than
// decode it loosely.
type VersionError struct {
	Found     int
	Supported int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("snapshot schema version %d is newer than supported version %d", e.Found, e.Supported)
}

// EncodeEnvelope wraps marshaled engine state in a versioned envelope.
func EncodeEnvelope(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot state: %w", err)
	}
	payload, err := json.Marshal(envelope{SchemaVersion: EnvelopeVersion, State: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot envelope: %w", err)
	}
	return payload, nil
}

// DecodeEnvelope unwraps a payload into state, migrating legacy payloads.
//
// Version 0 payloads carry no envelope: the whole payload is the state.
func DecodeEnvelope(payload []byte, state any) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode snapshot envelope: %w", err)
	}

	switch env.SchemaVersion {
	case EnvelopeVersion:
		if err := json.Unmarshal(env.State, state); err != nil {
			return fmt.Errorf("decode snapshot state: %w", err)
		}
		return nil

	case 0:
		if err := json.Unmarshal(payload, state); err != nil {
			return fmt.Errorf("decode legacy snapshot: %w", err)
		}
		return nil

	default:
		return &VersionError{Found: env.SchemaVersion, Supported: EnvelopeVersion}
	}
}
