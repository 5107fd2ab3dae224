package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(&buf, "debug", "json"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { _ = Setup(nil, "info", "text") })

	log.WithField("step", "Visit").Debug("created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["step"] != "Visit" || entry["msg"] != "created" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetup_Invalid(t *testing.T) {
	if err := Setup(nil, "loud", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Setup(nil, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
