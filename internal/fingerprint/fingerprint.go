// Package fingerprint derives a content identity for model configurations.
//
// Two configurations with the same fingerprint are the same model for deduplication
// and registry matching, whatever their id, display name or timestamps. The
// normalization helpers here are the only definition of "same"; extraction and
// matching both go through them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/conn-castle/quizmodels/internal/settings"
)

// NormalizeString trims and lowercases a configuration value.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeBaseURL normalizes a base URL and strips trailing slashes. An empty URL
// normalizes to the provider default, so an omitted default and a spelled-out one match.
func NormalizeBaseURL(kind settings.ProviderKind, raw string) string {
	url := strings.TrimRight(NormalizeString(raw), "/")
	if url == "" {
		url = strings.TrimRight(NormalizeString(kind.DefaultBaseURL()), "/")
	}
	return url
}

// OfProvider fingerprints a provider configuration.
func OfProvider(cfg settings.ProviderConfig) string {
	// encoding/json sorts map keys, which makes the serialization order-independent.
	fields := map[string]string{
		"provider":        NormalizeString(string(cfg.Provider)),
		"credentials":     NormalizeString(cfg.APIKey),
		"baseUrl":         NormalizeBaseURL(cfg.Provider, cfg.BaseURL),
		"generationModel": NormalizeString(cfg.TextGenerationModel),
		"embeddingModel":  NormalizeString(cfg.EmbeddingModel),
	}
	data, err := json.Marshal(fields)
	if err != nil {
		// map[string]string always marshals.
		panic(err)
	}
	return string(data)
}

// Of fingerprints a model configuration, ignoring id, display name and timestamps.
func Of(model settings.ModelConfiguration) string {
	return OfProvider(model.ProviderConfig)
}

// Digest returns a short, credential-free form of a fingerprint for display.
func Digest(fp string) string {
	sum := sha256.Sum256([]byte(fp))
	return hex.EncodeToString(sum[:])[:12]
}
