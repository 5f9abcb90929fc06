package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testItem struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// --- NewWriter Factory Tests ---

func TestNewWriter_Formats(t *testing.T) {
	buf := &bytes.Buffer{}

	if w, err := NewWriter(buf, FormatJSON); err != nil {
		t.Errorf("NewWriter(json) error = %v", err)
	} else if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}

	if w, err := NewWriter(buf, FormatJSONL); err != nil {
		t.Errorf("NewWriter(jsonl) error = %v", err)
	} else if _, ok := w.(*JSONLWriter); !ok {
		t.Errorf("expected *JSONLWriter, got %T", w)
	}

	if w, err := NewWriter(buf, FormatYAML); err != nil {
		t.Errorf("NewWriter(yaml) error = %v", err)
	} else if _, ok := w.(*YAMLWriter); !ok {
		t.Errorf("expected *YAMLWriter, got %T", w)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_SingleItemIsOneLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	if err := w.Write(testItem{Name: "envelope", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.HasSuffix(out, "\n") {
		t.Errorf("output is not exactly one line: %q", out)
	}

	var got testItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Name != "envelope" || got.Value != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestJSONWriter_MultipleItemsOutputArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	_ = w.Write(testItem{Name: "first", Value: 1})
	_ = w.Write(testItem{Name: "second", Value: 2})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got []testItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got) != 2 || got[0].Name != "first" || got[1].Name != "second" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestJSONWriter_PrettyPrints(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithPretty(true))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	_ = w.Write(testItem{Name: "x", Value: 1})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("output not indented: %q", buf.String())
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	_ = w.Write(testItem{Name: "a", Value: 1})
	_ = w.Write(testItem{Name: "b", Value: 2})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var item testItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_SingleItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	_ = w.Write(testItem{Name: "y", Value: 3})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var got testItem
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got.Name != "y" || got.Value != 3 {
		t.Errorf("unexpected result: %+v", got)
	}
}
