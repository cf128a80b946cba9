package secret

import (
	"strings"
	"testing"
)

const sampleDocument = `
kv = {
  "fcm-credential" = "{\"type\":\"service_account\"}"
}
hmac = {
  "key-2024" = "first-secret"
  "key-2025" = "second-secret"
}
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if got := cfg.HMAC["key-2025"]; got != "second-secret" {
		t.Errorf("expected hmac key to decode, got %q", got)
	}
	if len(cfg.HMAC) != 2 {
		t.Errorf("expected 2 hmac keys, got %v", len(cfg.HMAC))
	}
	if got := cfg.KV["fcm-credential"]; !strings.Contains(got, "service_account") {
		t.Errorf("unexpected kv payload: %q", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader(`hmac = [1, 2`)); err == nil {
		t.Fatal("expected decode error")
	}
}
