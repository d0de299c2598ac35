package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"ACT","protocol_version":"1.0","action":"PLANT"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != TypeAct || m.ProtocolVersion != Version {
		t.Fatalf("got %+v", m)
	}

	if _, err := DecodeBase([]byte(`{"type":`)); err == nil {
		t.Fatal("want error for truncated json")
	}
}

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{
		ErrProtoBadRequest, ErrBadRequest, ErrNoFunds, ErrFieldOwned,
		ErrFieldUnowned, ErrFieldOccupied, ErrFieldEmpty, ErrNotMature,
		ErrNoItem, ErrUnknownField, ErrUnknownCrop, ErrUnknownItem, ErrInternal,
	} {
		if !IsKnownCode(code) {
			t.Fatalf("%s must be known", code)
		}
	}
	// Success results carry no code.
	if !IsKnownCode("") {
		t.Fatal("empty code must be accepted")
	}
	if IsKnownCode("E_MADE_UP") {
		t.Fatal("unknown code must be rejected")
	}
}

func TestResultMsgOmitsCodeOnSuccess(t *testing.T) {
	raw, err := json.Marshal(ResultMsg{
		Type:            TypeResult,
		ProtocolVersion: Version,
		AckFor:          "req-1",
		OK:              true,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := doc["code"]; present {
		t.Fatal("success result must not carry a code field")
	}
	if _, present := doc["message"]; present {
		t.Fatal("success result must not carry a message field")
	}
}

func TestActMsgRoundTrip(t *testing.T) {
	want := ActMsg{
		Type:            TypeAct,
		ProtocolVersion: Version,
		ID:              "req-9",
		Action:          "APPLY_ITEM",
		FieldID:         "hex-0-0",
		ItemID:          "water_basic",
	}
	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ActMsg
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
