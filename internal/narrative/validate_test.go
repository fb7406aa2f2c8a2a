package narrative

import (
	"encoding/json"
	"testing"
)

func TestValidateResponse_Conforming(t *testing.T) {
	raw := json.RawMessage(`{"message":"hello"}`)
	if err := validateResponse(insightSchema, raw); err != nil {
		t.Errorf("conforming response rejected: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"note":"hello"}`)
	if err := validateResponse(insightSchema, raw); err == nil {
		t.Error("response without the message field passed validation")
	}
}

func TestValidateResponse_ExtraProperty(t *testing.T) {
	raw := json.RawMessage(`{"message":"hello","extra":1}`)
	if err := validateResponse(insightSchema, raw); err == nil {
		t.Error("response with an extra property passed validation")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Errorf("nil schema should skip validation, got %v", err)
	}
}

func TestValidateResponse_InvalidJSON(t *testing.T) {
	if err := validateResponse(insightSchema, json.RawMessage(`{`)); err == nil {
		t.Error("malformed JSON passed validation")
	}
}
