package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRecordFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write record file: %v", err)
	}
	return path
}

// --- Previous Record Loading Tests ---

func TestLoadRecord_BareRecord(t *testing.T) {
	path := writeRecordFile(t, `{"year": 2019, "photo_location_country": "France"}`)

	rec, err := loadRecord(path)
	if err != nil {
		t.Fatalf("loadRecord() error = %v", err)
	}
	if rec["year"] != float64(2019) {
		t.Errorf("year = %v, want 2019", rec["year"])
	}
}

func TestLoadRecord_ExtractEnvelope(t *testing.T) {
	path := writeRecordFile(t, `{
		"message": "Extracted metadata from GPT (cost: $0.001650)",
		"metadata": {"year": 2019, "photo_location_city": "Paris"}
	}`)

	rec, err := loadRecord(path)
	if err != nil {
		t.Fatalf("loadRecord() error = %v", err)
	}
	if rec["photo_location_city"] != "Paris" {
		t.Errorf("city = %v, want Paris", rec["photo_location_city"])
	}
	if _, ok := rec["message"]; ok {
		t.Error("envelope wrapper leaked into the record")
	}
}

func TestLoadRecord_RejectsErrorPayloadEnvelope(t *testing.T) {
	path := writeRecordFile(t, `{
		"message": "Extracted metadata from GPT (cost: $0.000000)",
		"metadata": {"error": "Failed to parse response as JSON", "raw_text": "{\"year\": 20"}
	}`)

	_, err := loadRecord(path)
	if err == nil {
		t.Fatal("loadRecord() accepted an error-payload envelope as a record")
	}
	if !strings.Contains(err.Error(), "no metadata fields") {
		t.Errorf("error = %v, want a no-metadata-fields rejection", err)
	}
}

func TestLoadRecord_RejectsForeignMap(t *testing.T) {
	path := writeRecordFile(t, `{"name": "not a record", "value": 3}`)

	if _, err := loadRecord(path); err == nil {
		t.Fatal("loadRecord() accepted a map with no metadata fields")
	}
}

func TestLoadRecord_MissingFile(t *testing.T) {
	if _, err := loadRecord(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("loadRecord() succeeded on a missing file")
	}
}

func TestLoadRecord_MalformedJSON(t *testing.T) {
	path := writeRecordFile(t, `{"year": `)

	if _, err := loadRecord(path); err == nil {
		t.Fatal("loadRecord() succeeded on malformed JSON")
	}
}
