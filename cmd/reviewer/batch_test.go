package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/text-reviewer/internal/types"
)

func TestWriteAssessment(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "draft.txt")

	a := &types.Assessment{
		Summary:       "No errors found.",
		TextSubmitted: "clean text",
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, writeAssessment(input, a))

	data, err := os.ReadFile(filepath.Join(dir, "draft.review.json"))
	require.NoError(t, err)

	var got types.Assessment
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "No errors found.", got.Summary)
	assert.Equal(t, "clean text", got.TextSubmitted)
}

func TestWriteAssessment_NoExtension(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "draft")

	require.NoError(t, writeAssessment(input, &types.Assessment{}))

	_, err := os.Stat(filepath.Join(dir, "draft.review.json"))
	assert.NoError(t, err)
}

func TestReadInput_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("some text"), 0644))

	got, err := readInput([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "some text", got)
}

func TestReadInput_MissingFile(t *testing.T) {
	_, err := readInput([]string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}
