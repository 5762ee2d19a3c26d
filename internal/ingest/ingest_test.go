package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON_Array(t *testing.T) {
	in := `[
		{"question_text": "What is TCP?", "choices": ["protocol", "cable"], "correct_index": 0},
		{"question": "What is UDP?", "options": ["protocol", "router"], "correct_answer": "A"}
	]`

	batch, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.Empty(t, batch.SchemaVersion)

	questions, errs := batch.Questions()
	require.Empty(t, errs)
	require.Len(t, questions, 2)
	assert.Equal(t, "What is TCP?", questions[0].Text)
	assert.Equal(t, 0, questions[1].CorrectIndex)
}

func TestReadJSON_Envelope(t *testing.T) {
	in := `{
		"schema_version": "1.0",
		"questions": [
			{"question_text": "What is TCP?", "choices": ["protocol", "cable"], "correct_index": 0}
		]
	}`

	batch, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "1.0", batch.SchemaVersion)
	require.Len(t, batch.Records, 1)
}

func TestReadJSONLines(t *testing.T) {
	in := `{"question_text": "What is TCP?", "choices": ["protocol", "cable"], "correct_index": 0}

{"question_text": "What is UDP?", "choices": ["protocol", "router"], "correct_index": 0}
`

	batch, err := ReadJSONLines(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, batch.Records, 2)
}

func TestReadYAML(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		in := `
- question_text: What is TCP?
  choices: [protocol, cable]
  correct_index: 0
`
		batch, err := ReadYAML(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, batch.Records, 1)
	})

	t.Run("envelope", func(t *testing.T) {
		in := `
schema_version: "1.2"
questions:
  - question_text: What is TCP?
    choices: [protocol, cable]
    correct_index: 0
`
		batch, err := ReadYAML(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, "1.2", batch.SchemaVersion)
		require.Len(t, batch.Records, 1)

		questions, errs := batch.Questions()
		require.Empty(t, errs)
		assert.Equal(t, []string{"protocol", "cable"}, questions[0].Choices)
	})
}

func TestReadCSV(t *testing.T) {
	in := `question_text,choices,correct_index,topics,difficulty
"What is TCP?",protocol | cable,0,"networking, transport",easy
"Which port is HTTPS?","[""80"", ""443""]",1,networking,
`

	batch, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)

	questions, errs := batch.Questions()
	require.Empty(t, errs)
	require.Len(t, questions, 2)

	assert.Equal(t, []string{"protocol", "cable"}, questions[0].Choices)
	assert.Equal(t, []string{"networking", "transport"}, questions[0].Topics)
	assert.Equal(t, []string{"80", "443"}, questions[1].Choices, "JSON-encoded cell decodes")
	assert.Equal(t, 1, questions[1].CorrectIndex)
}

func TestReadCSV_Empty(t *testing.T) {
	batch, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
}

func TestReadFile_Dispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"question_text": "What is TCP?", "choices": ["protocol", "cable"], "correct_index": 0}]`), 0644))

	batch, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "batch.json", batch.Source)
	assert.Len(t, batch.Records, 1)

	_, err = ReadFile(filepath.Join(dir, "batch.txt"))
	assert.Error(t, err)
}

func TestCheckSchemaVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		valid   bool
	}{
		{name: "empty", version: "", valid: true},
		{name: "bare major.minor", version: "1.0", valid: true},
		{name: "v-prefixed", version: "v1.2.3", valid: true},
		{name: "newer major accepted with warning", version: "2.0", valid: true},
		{name: "garbage", version: "latest", valid: false},
		{name: "trailing junk", version: "1.0.x", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchemaVersion(tt.version)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBatchQuestions_CollectsRecordErrors(t *testing.T) {
	batch := &Batch{Records: []map[string]any{
		{"question_text": "What is TCP?", "choices": []any{"protocol", "cable"}, "correct_index": 0},
		{"question_text": "Broken?", "choices": []any{"a", "b"}, "correct_answer": "maybe"},
	}}

	questions, errs := batch.Questions()
	assert.Len(t, questions, 1)
	assert.Len(t, errs, 1)
}
