package config

import "github.com/conn-castle/quizmodels/internal/messages"

// FieldType classifies the kind of value a config field accepts.
type FieldType string

const (
	// FieldBool accepts true or false.
	FieldBool FieldType = "bool"
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
	// FieldFreetext accepts arbitrary string input.
	FieldFreetext FieldType = "freetext"
	// FieldPositiveInt accepts a positive integer.
	FieldPositiveInt FieldType = "positive_int"
	// FieldDuration accepts a Go duration string such as "300ms".
	FieldDuration FieldType = "duration"
)

// FieldOption describes a single selectable value for a field.
type FieldOption struct {
	Value       string
	Description string // empty for options without descriptions
}

// FieldDef describes a single config field's type, default and valid options.
type FieldDef struct {
	Key     string
	Type    FieldType
	Default string
	Options []FieldOption
}

// fields is the canonical ordered registry of all config fields.
var fields = []FieldDef{
	{Key: "backup.dir", Type: FieldFreetext},
	{Key: "backup.max_retained", Type: FieldPositiveInt, Default: "20"},
	{Key: "output.diff_lines", Type: FieldPositiveInt, Default: "200"},
	{
		Key:     "output.noise_mode",
		Type:    FieldEnum,
		Default: NoiseModeDefault,
		Options: []FieldOption{
			{Value: NoiseModeDefault, Description: messages.ConfigNoiseModeDefaultDescription},
			{Value: NoiseModeQuiet, Description: messages.ConfigNoiseModeQuietDescription},
		},
	},
	{Key: "output.color", Type: FieldBool, Default: "true"},
	{
		Key:     "log.level",
		Type:    FieldEnum,
		Default: "warn",
		Options: []FieldOption{{Value: "debug"}, {Value: "info"}, {Value: "warn"}, {Value: "error"}},
	},
	{
		Key:     "log.format",
		Type:    FieldEnum,
		Default: "text",
		Options: []FieldOption{{Value: "text"}, {Value: "json"}},
	},
	{Key: "migrate.require_backup", Type: FieldBool, Default: "true"},
	{Key: "watch.debounce", Type: FieldDuration, Default: "300ms"},
}

// fieldIndex provides O(1) lookup by key.
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Key] = i
	}
	return idx
}

// LookupField returns the field definition for the given config key.
// Returns false when the key is not in the catalog.
func LookupField(key string) (FieldDef, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return copyFieldDef(fields[i]), true
}

// Fields returns a copy of all registered field definitions in catalog order.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		out[i] = copyFieldDef(f)
	}
	return out
}

// FieldOptionValues returns the option values for a field as a plain string slice.
// Returns nil when the key is not in the catalog or has no options.
func FieldOptionValues(key string) []string {
	f, ok := LookupField(key)
	if !ok || len(f.Options) == 0 {
		return nil
	}
	values := make([]string, len(f.Options))
	for i, opt := range f.Options {
		values[i] = opt.Value
	}
	return values
}

// isValidOption checks value against the catalog options for key. Empty values are
// valid and select the default.
func isValidOption(key string, value string) bool {
	if value == "" {
		return true
	}
	for _, option := range FieldOptionValues(key) {
		if option == value {
			return true
		}
	}
	return false
}

// copyFieldDef returns a deep copy of a FieldDef so callers cannot mutate the registry.
func copyFieldDef(f FieldDef) FieldDef {
	if len(f.Options) > 0 {
		opts := make([]FieldOption, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}
