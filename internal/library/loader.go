// Package library loads a local photo-metadata corpus and filters it using
// an extracted metadata record as the search criteria.
package library

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/snapmeta/snapmeta/internal/logger"
)

// PhotoEntry is one photo's stored metadata.
type PhotoEntry struct {
	PhotoID                string  `json:"photo_id"`
	PhotoSubmittedAt       string  `json:"photo_submitted_at"`
	PhotoLocationCountry   string  `json:"photo_location_country"`
	PhotoLocationCity      string  `json:"photo_location_city"`
	PhotoLocationLatitude  float64 `json:"photo_location_latitude"`
	PhotoLocationLongitude float64 `json:"photo_location_longitude"`
	PhotographerUsername   string  `json:"photographer_username"`
	PhotographerFirstName  string  `json:"photographer_first_name"`
	PhotographerLastName   string  `json:"photographer_last_name"`
	PhotoDescription       string  `json:"photo_description"`
	AiDescription          string  `json:"ai_description"`
	ExifCameraMake         string  `json:"exif_camera_make"`
	ExifCameraModel        string  `json:"exif_camera_model"`
}

// utf8BOM is the byte order mark some exports prepend to JSONL files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadDir walks dir and decodes every .json file into a PhotoEntry.
// Files that fail to decode are skipped with a warning.
func LoadDir(dir string) ([]PhotoEntry, error) {
	var entries []PhotoEntry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %q: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read file %s: %w", path, readErr)
		}

		var entry PhotoEntry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
			logger.Warn("skipping unparseable metadata file", "path", path, "error", unmarshalErr)
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed walking metadata directory: %w", err)
	}

	return entries, nil
}

// LoadJSONL reads a JSON Lines file, one PhotoEntry per line, skipping a
// leading UTF-8 BOM and blank or unparseable lines.
func LoadJSONL(path string) ([]PhotoEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL file %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip BOM: %w", err)
		}
	}

	var entries []PhotoEntry
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var entry PhotoEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			logger.Warn("skipping unparseable JSONL line", "line", line, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed scanning JSONL file: %w", err)
	}

	return entries, nil
}
