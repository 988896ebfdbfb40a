package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// FixedTime is the clock value used by fixtures that need stable timestamps.
var FixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// FixedNow returns FixedTime.
func FixedNow() time.Time {
	return FixedTime
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
// prefix is the id prefix shared by all generated ids.
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// OpenAIBlob returns a legacy root-shaped settings blob for OpenAI.
// key is the API key; model is the text generation model.
func OpenAIBlob(key string, model string) map[string]any {
	return map[string]any{
		"provider":           "OpenAI",
		"openAIApiKey":       key,
		"openAITextGenModel": model,
	}
}

// OllamaBlob returns a legacy root-shaped settings blob for a local Ollama model.
// model is the text generation model.
func OllamaBlob(model string) map[string]any {
	return map[string]any{
		"provider":           "Ollama",
		"ollamaBaseURL":      "http://localhost:11434",
		"ollamaTextGenModel": model,
	}
}

// LegacyEntry wraps blob as a consensus or council list entry.
// id is the legacy entry id; weight and enabled are the per-reference metadata.
func LegacyEntry(id string, blob map[string]any, weight float64, enabled bool) map[string]any {
	return map[string]any{
		"id":       id,
		"settings": blob,
		"weight":   weight,
		"enabled":  enabled,
	}
}

// LegacySettings returns the canonical legacy document used across tests: an OpenAI
// main model plus a consensus list holding the same OpenAI model and an Ollama model.
func LegacySettings() map[string]any {
	doc := OpenAIBlob("keyA", "gpt-4")
	doc["openAIEmbeddingModel"] = "text-embedding-3-small"
	doc["enableConsensus"] = true
	consensusOpenAI := OpenAIBlob("keyA", "gpt-4")
	consensusOpenAI["openAIEmbeddingModel"] = "text-embedding-3-small"
	doc["consensusSettings"] = map[string]any{
		"minimumAgreement": 0.6,
		"models": []any{
			LegacyEntry("consensus-openai", consensusOpenAI, 1.2, true),
			LegacyEntry("consensus-ollama", OllamaBlob("llama2"), 1.0, false),
		},
	}
	return doc
}

// WriteSettings encodes doc as JSON into dir/name and returns the path.
// t is the active test; doc is any JSON-encodable value.
func WriteSettings(t *testing.T, dir string, name string, doc any) string {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("encode settings: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

// ReadJSON decodes the JSON file at path into a generic value.
func ReadJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
