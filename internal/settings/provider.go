package settings

import (
	"strings"
)

// ProviderKind identifies a language-model backend.
type ProviderKind string

// Supported provider kinds.
const (
	ProviderOpenAI     ProviderKind = "openai"
	ProviderGoogle     ProviderKind = "google"
	ProviderAnthropic  ProviderKind = "anthropic"
	ProviderPerplexity ProviderKind = "perplexity"
	ProviderMistral    ProviderKind = "mistral"
	ProviderCohere     ProviderKind = "cohere"
	ProviderDeepSeek   ProviderKind = "deepseek"
	ProviderOllama     ProviderKind = "ollama"
	ProviderLMStudio   ProviderKind = "lmstudio"
)

// providerSpec describes how a provider kind is spelled in legacy settings.
type providerSpec struct {
	kind           ProviderKind
	label          string
	fieldPrefix    string
	defaultBaseURL string
	requiresAPIKey bool
}

// providerSpecs is the single table replacing per-provider legacy field handling.
// Order is the order legacy root fields are pruned and reported.
var providerSpecs = []providerSpec{
	{kind: ProviderOpenAI, label: "OpenAI", fieldPrefix: "openAI", defaultBaseURL: "https://api.openai.com/v1", requiresAPIKey: true},
	{kind: ProviderGoogle, label: "Google", fieldPrefix: "google", defaultBaseURL: "https://generativelanguage.googleapis.com", requiresAPIKey: true},
	{kind: ProviderAnthropic, label: "Anthropic", fieldPrefix: "anthropic", defaultBaseURL: "https://api.anthropic.com", requiresAPIKey: true},
	{kind: ProviderPerplexity, label: "Perplexity", fieldPrefix: "perplexity", defaultBaseURL: "https://api.perplexity.ai", requiresAPIKey: true},
	{kind: ProviderMistral, label: "Mistral", fieldPrefix: "mistral", defaultBaseURL: "https://api.mistral.ai/v1", requiresAPIKey: true},
	{kind: ProviderCohere, label: "Cohere", fieldPrefix: "cohere", defaultBaseURL: "https://api.cohere.com", requiresAPIKey: true},
	{kind: ProviderDeepSeek, label: "DeepSeek", fieldPrefix: "deepSeek", defaultBaseURL: "https://api.deepseek.com", requiresAPIKey: true},
	{kind: ProviderOllama, label: "Ollama", fieldPrefix: "ollama", defaultBaseURL: "http://localhost:11434", requiresAPIKey: false},
	{kind: ProviderLMStudio, label: "LM Studio", fieldPrefix: "lmStudio", defaultBaseURL: "http://localhost:1234/v1", requiresAPIKey: false},
}

// Legacy per-provider field suffixes.
const (
	fieldSuffixAPIKey         = "ApiKey"
	fieldSuffixBaseURL        = "BaseURL"
	fieldSuffixTextGenModel   = "TextGenModel"
	fieldSuffixEmbeddingModel = "EmbeddingModel"
)

func lookupProviderSpec(kind ProviderKind) (providerSpec, bool) {
	for _, spec := range providerSpecs {
		if spec.kind == kind {
			return spec, true
		}
	}
	return providerSpec{}, false
}

// ParseProviderKind resolves a provider tag as written by any settings version.
// Matching ignores case, spaces, dashes and underscores, so "LM Studio", "lm-studio"
// and "lmstudio" all resolve to ProviderLMStudio.
func ParseProviderKind(raw string) (ProviderKind, bool) {
	key := providerKey(raw)
	if key == "" {
		return "", false
	}
	for _, spec := range providerSpecs {
		if providerKey(string(spec.kind)) == key || providerKey(spec.label) == key {
			return spec.kind, true
		}
	}
	return "", false
}

func providerKey(raw string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
}

// ProviderKinds returns every supported provider kind in table order.
func ProviderKinds() []ProviderKind {
	out := make([]ProviderKind, 0, len(providerSpecs))
	for _, spec := range providerSpecs {
		out = append(out, spec.kind)
	}
	return out
}

// Label returns the display label, or the raw kind for unknown values.
func (k ProviderKind) Label() string {
	if spec, ok := lookupProviderSpec(k); ok {
		return spec.label
	}
	return string(k)
}

// RequiresAPIKey reports whether the provider needs credentials.
func (k ProviderKind) RequiresAPIKey() bool {
	spec, ok := lookupProviderSpec(k)
	return !ok || spec.requiresAPIKey
}

// DefaultBaseURL returns the endpoint used when settings omit one.
func (k ProviderKind) DefaultBaseURL() string {
	spec, _ := lookupProviderSpec(k)
	return spec.defaultBaseURL
}

// legacyField returns the legacy settings key for this provider and suffix,
// e.g. openAIApiKey or ollamaTextGenModel.
func (k ProviderKind) legacyField(suffix string) string {
	spec, ok := lookupProviderSpec(k)
	if !ok {
		return ""
	}
	return spec.fieldPrefix + suffix
}

// APIKeyField returns the legacy credentials key, e.g. openAIApiKey.
func (k ProviderKind) APIKeyField() string { return k.legacyField(fieldSuffixAPIKey) }

// BaseURLField returns the legacy base URL key, e.g. openAIBaseURL.
func (k ProviderKind) BaseURLField() string { return k.legacyField(fieldSuffixBaseURL) }

// TextGenModelField returns the legacy generation model key, e.g. openAITextGenModel.
func (k ProviderKind) TextGenModelField() string { return k.legacyField(fieldSuffixTextGenModel) }

// EmbeddingModelField returns the legacy embedding model key, e.g. openAIEmbeddingModel.
func (k ProviderKind) EmbeddingModelField() string {
	return k.legacyField(fieldSuffixEmbeddingModel)
}

// LegacyRootKeys lists every root-level key used by the pre-registry settings format,
// the provider tag first and then each provider's fields in table order.
func LegacyRootKeys() []string {
	keys := []string{KeyProvider}
	for _, spec := range providerSpecs {
		keys = append(keys,
			spec.fieldPrefix+fieldSuffixAPIKey,
			spec.fieldPrefix+fieldSuffixBaseURL,
			spec.fieldPrefix+fieldSuffixTextGenModel,
			spec.fieldPrefix+fieldSuffixEmbeddingModel,
		)
	}
	return keys
}
