package store

import (
	"errors"
	"testing"
)

type testState struct {
	Names []string `json:"names"`
	Open  bool     `json:"open"`
}

func TestEnvelope_RoundTrip(t *testing.T) {
	in := testState{Names: []string{"a", "b"}, Open: true}

	payload, err := EncodeEnvelope(in)
	if err != nil {
		t.Fatalf("EncodeEnvelope() failed: %v", err)
	}

	var out testState
	if err := DecodeEnvelope(payload, &out); err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	if len(out.Names) != 2 || out.Names[0] != "a" || out.Names[1] != "b" || !out.Open {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestDecodeEnvelope_LegacyBareState(t *testing.T) {
	// Version 0: the whole payload is the state, no envelope.
	var out testState
	if err := DecodeEnvelope([]byte(`{"names":["x"],"open":true}`), &out); err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	if len(out.Names) != 1 || out.Names[0] != "x" || !out.Open {
		t.Errorf("legacy decode mismatch: %+v", out)
	}
}

func TestDecodeEnvelope_FutureVersionRejected(t *testing.T) {
	var out testState
	err := DecodeEnvelope([]byte(`{"schema_version":2,"state":{"names":[]}}`), &out)
	if err == nil {
		t.Fatal("expected error for future schema version")
	}

	var ve *VersionError
	if !errors.As(err, &ve) {
		t.Fatalf("expected VersionError, got %v", err)
	}
	if ve.Found != 2 || ve.Supported != EnvelopeVersion {
		t.Errorf("VersionError = %+v", ve)
	}
}

func TestDecodeEnvelope_MalformedPayload(t *testing.T) {
	var out testState
	if err := DecodeEnvelope([]byte("{oops"), &out); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestMem_SaveLoadDelete(t *testing.T) {
	m := NewMem()
	ctx := t.Context()

	if err := m.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	payload, found, err := m.Load(ctx, "k")
	if err != nil || !found || string(payload) != "v" {
		t.Fatalf("Load() = %q, %v, %v", payload, found, err)
	}

	// Mutating the returned slice must not affect the stored payload
	payload[0] = 'x'
	payload2, _, _ := m.Load(ctx, "k")
	if string(payload2) != "v" {
		t.Error("stored payload was aliased by Load result")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, found, _ := m.Load(ctx, "k"); found {
		t.Error("found=true after delete")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", m.Len())
	}
}
