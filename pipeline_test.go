package kbstrip

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/kbstrip/storage"
)

func writeKnowledgeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "insurance_knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_Run(t *testing.T) {
	path := writeKnowledgeFile(t, `[
  {"question": "What is liability coverage?", "answer": "Coverage for damages you cause.", "embedding": [0.12, 0.98, -0.33]},
  {"question": "What is a deductible?", "answer": "The amount you pay before coverage kicks in."}
]`)

	var progress bytes.Buffer
	pipeline := NewPipeline(path, WithProgress(&progress))

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Removed)
	assert.False(t, summary.DryRun)
	assert.NotEmpty(t, summary.Digest)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "question": "What is liability coverage?",
    "answer": "Coverage for damages you cause."
  },
  {
    "question": "What is a deductible?",
    "answer": "The amount you pay before coverage kicks in."
  }
]
`
	assert.Equal(t, want, string(data))
	assert.Equal(t, summary.Bytes, len(data))
}

func TestPipeline_Idempotent(t *testing.T) {
	path := writeKnowledgeFile(t, `[{"q":"A","embedding":[1]},{"q":"B"}]`)

	pipeline := NewPipeline(path, WithProgress(&bytes.Buffer{}))

	first, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Modified)

	second, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Modified)
	assert.Equal(t, first.Digest, second.Digest, "second run must not change the file")
}

func TestPipeline_EmptyDocument(t *testing.T) {
	path := writeKnowledgeFile(t, `[]`)

	pipeline := NewPipeline(path, WithProgress(&bytes.Buffer{}))

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Scanned)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestPipeline_DryRun(t *testing.T) {
	original := `[{"q":"A","embedding":[1]}]`
	path := writeKnowledgeFile(t, original)

	pipeline := NewPipeline(path, WithProgress(&bytes.Buffer{}), WithDryRun(true))

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Modified)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "dry run must not touch the file")
}

func TestPipeline_MalformedInputLeavesFileUntouched(t *testing.T) {
	original := `[{"q":"A","embedding":`
	path := writeKnowledgeFile(t, original)

	pipeline := NewPipeline(path, WithProgress(&bytes.Buffer{}))

	_, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrParse)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "a failed parse must leave the original file intact")
}

func TestPipeline_MissingFile(t *testing.T) {
	pipeline := NewPipeline(filepath.Join(t.TempDir(), "absent.json"), WithProgress(&bytes.Buffer{}))

	_, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPipeline_CustomFields(t *testing.T) {
	path := writeKnowledgeFile(t, `[{"q":"A","vector":[1],"embedding":[2]}]`)

	pipeline := NewPipeline(path,
		WithProgress(&bytes.Buffer{}),
		WithFields("vector"),
	)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "embedding", "only the configured field is removed")
	assert.NotContains(t, string(data), "vector")
}

func TestPipeline_ASCIIOnlyOutput(t *testing.T) {
	path := writeKnowledgeFile(t, `[{"question":"¿Qué es un deducible?","embedding":[1]}]`)

	pipeline := NewPipeline(path,
		WithProgress(&bytes.Buffer{}),
		WithASCIIOnly(true),
	)

	_, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, b := range data {
		assert.Less(t, b, byte(0x80))
	}

	doc, err := storage.Load(path)
	require.NoError(t, err)
	v, ok := doc[0].Get("question")
	require.True(t, ok)
	var question string
	require.NoError(t, json.Unmarshal(v, &question))
	assert.Equal(t, "¿Qué es un deducible?", question)
}

func TestPipeline_EmptyPathUsesDefault(t *testing.T) {
	pipeline := NewPipeline("")
	assert.Equal(t, DefaultPath, pipeline.path)
}
