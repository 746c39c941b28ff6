package homework

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func decode(t *testing.T, body string) interface{} {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("bad fixture %q: %v", body, err)
	}
	return v
}

func TestCheckResponse_Valid(t *testing.T) {
	raw := decode(t, `{"homeworks": [{"homework_name": "proj1", "status": "approved"}], "current_date": 1000}`)

	resp, err := CheckResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.CurrentDate != 1000 {
		t.Errorf("expected current_date 1000, got %d", resp.CurrentDate)
	}
	if len(resp.Homeworks) != 1 || resp.Homeworks[0]["homework_name"] != "proj1" {
		t.Errorf("unexpected homeworks: %v", resp.Homeworks)
	}
}

func TestCheckResponse_EmptyHomeworks(t *testing.T) {
	resp, err := CheckResponse(decode(t, `{"homeworks": [], "current_date": 1000}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Homeworks) != 0 || resp.CurrentDate != 1000 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCheckResponse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"list at top level", `[1, 2]`, "response"},
		{"string at top level", `"hello"`, "response"},
		{"homeworks missing", `{"current_date": 1000}`, "homeworks"},
		{"homeworks not a list", `{"homeworks": "not-a-list", "current_date": 1000}`, "homeworks"},
		{"homeworks is null", `{"homeworks": null, "current_date": 1000}`, "homeworks"},
		{"current_date missing", `{"homeworks": []}`, "current_date"},
		{"current_date string", `{"homeworks": [], "current_date": "1000"}`, "current_date"},
		{"current_date float", `{"homeworks": [], "current_date": 1000.5}`, "current_date"},
		{"record not an object", `{"homeworks": ["hw"], "current_date": 1000}`, "homeworks[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckResponse(decode(t, tt.body))

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
			if !errors.Is(err, ErrInvalidResponse) {
				t.Error("expected error to match ErrInvalidResponse")
			}
		})
	}
}

func TestCheckResponse_Idempotent(t *testing.T) {
	bodies := []string{
		`{"homeworks": [], "current_date": 1000}`,
		`{"homeworks": "not-a-list", "current_date": 1000}`,
	}

	for _, body := range bodies {
		raw := decode(t, body)
		_, err1 := CheckResponse(raw)
		_, err2 := CheckResponse(raw)
		if (err1 == nil) != (err2 == nil) {
			t.Errorf("%s: results differ: %v vs %v", body, err1, err2)
		}
	}
}

func TestCheckResponse_GoIntegers(t *testing.T) {
	raw := map[string]interface{}{
		"homeworks":    []interface{}{},
		"current_date": int64(42),
	}
	resp, err := CheckResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.CurrentDate != 42 {
		t.Errorf("expected 42, got %d", resp.CurrentDate)
	}
}
