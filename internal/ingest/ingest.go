// Package ingest reads question batch files and maps them onto canonical
// records before any merge or validation logic runs.
//
// Four file shapes are accepted: a JSON array of records, a JSON object
// with batch metadata and a questions array, JSON lines, and CSV with a
// header row. YAML mirrors the JSON shapes. Field aliases inside each
// record are the normalization layer's concern; this package only gets
// the records out of the file.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/sowhat82/mockexamify/internal/types"
)

// SupportedSchemaMajor is the newest batch-file schema major version this
// build understands. Newer majors load with a warning rather than failing,
// so a pool export from a newer deployment is still usable.
const SupportedSchemaMajor = "v1"

// Batch is a parsed batch file: optional metadata plus the raw records.
type Batch struct {
	SchemaVersion string
	Source        string
	Records       []map[string]any
}

// batchEnvelope is the object form of a batch file.
type batchEnvelope struct {
	SchemaVersion string           `json:"schema_version" yaml:"schema_version"`
	Questions     []map[string]any `json:"questions" yaml:"questions"`
}

// ReadFile parses a batch file, dispatching on its extension:
// .json (array or envelope), .jsonl/.ndjson, .csv, .yaml/.yml.
func ReadFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var batch *Batch
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		batch, err = ReadJSON(f)
	case ".jsonl", ".ndjson":
		batch, err = ReadJSONLines(f)
	case ".csv":
		batch, err = ReadCSV(f)
	case ".yaml", ".yml":
		batch, err = ReadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported batch file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	batch.Source = filepath.Base(path)
	return batch, nil
}

// ReadJSON parses either a bare JSON array of records or an envelope
// object carrying schema_version and a questions array.
func ReadJSON(r io.Reader) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "[") {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		return &Batch{Records: records}, nil
	}

	var env batchEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON envelope: %w", err)
	}
	return &Batch{SchemaVersion: env.SchemaVersion, Records: env.Questions}, nil
}

// ReadJSONLines parses one JSON record per line. Blank lines are skipped.
func ReadJSONLines(r io.Reader) (*Batch, error) {
	records := make([]map[string]any, 0)
	dec := json.NewDecoder(r)
	for {
		var rec map[string]any
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("invalid JSON on record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return &Batch{Records: records}, nil
}

// ReadYAML parses the YAML mirror of the JSON shapes: a sequence of
// records or an envelope mapping.
func ReadYAML(r io.Reader) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err == nil {
		return &Batch{Records: records}, nil
	}

	var env batchEnvelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid YAML batch: %w", err)
	}
	return &Batch{SchemaVersion: env.SchemaVersion, Records: env.Questions}, nil
}

// ReadCSV parses a CSV batch with a header row. Header names are the same
// aliases accepted in JSON records. The choices column holds either a
// JSON-encoded array or a pipe-separated list; topics are comma-separated.
func ReadCSV(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Batch{Records: []map[string]any{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	records := make([]map[string]any, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			switch col {
			case "choices", "options":
				rec[col] = splitCSVChoices(value)
			case "topics", "tags":
				rec[col] = splitList(value, ",")
			default:
				rec[col] = value
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return &Batch{Records: records}, nil
}

// splitCSVChoices interprets a CSV choices cell. A JSON array passes
// through as a string for the normalization layer to decode; anything
// else is treated as a pipe-separated list.
func splitCSVChoices(value string) any {
	if strings.HasPrefix(value, "[") {
		return value
	}
	return splitList(value, "|")
}

func splitList(value, sep string) []string {
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Questions validates the batch's schema version and normalizes its
// records into canonical questions. Records that cannot be normalized are
// returned as errors alongside the questions that could.
func (b *Batch) Questions() ([]types.Question, []error) {
	if err := CheckSchemaVersion(b.SchemaVersion); err != nil {
		return nil, []error{err}
	}
	return types.FromRecords(b.Records)
}

// CheckSchemaVersion validates a batch file's schema_version declaration.
// An empty version is accepted as the current schema. A version with a
// newer major than this build supports logs a warning but does not fail.
func CheckSchemaVersion(version string) error {
	if version == "" {
		return nil
	}
	canonical := version
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		return fmt.Errorf("invalid schema_version %q", version)
	}
	if semver.Compare(semver.Major(canonical), SupportedSchemaMajor) > 0 {
		log.Printf("[INGEST] Batch schema %s is newer than supported %s; fields added by newer schemas are ignored",
			version, SupportedSchemaMajor)
	}
	return nil
}
