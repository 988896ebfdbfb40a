package config

import "testing"

func TestLookupField_KnownKey(t *testing.T) {
	f, ok := LookupField("output.noise_mode")
	if !ok {
		t.Fatal("expected output.noise_mode to be in catalog")
	}
	if f.Type != FieldEnum {
		t.Errorf("expected FieldEnum, got %s", f.Type)
	}
	if f.Default != NoiseModeDefault {
		t.Errorf("expected default %q, got %q", NoiseModeDefault, f.Default)
	}
	for _, opt := range f.Options {
		if opt.Description == "" {
			t.Errorf("expected noise mode option %q to carry a description", opt.Value)
		}
	}
}

func TestLookupField_UnknownKey(t *testing.T) {
	_, ok := LookupField("nonexistent.field")
	if ok {
		t.Error("expected unknown key to return false")
	}
}

func TestLookupField_BoolField(t *testing.T) {
	f, ok := LookupField("migrate.require_backup")
	if !ok {
		t.Fatal("expected migrate.require_backup to be in catalog")
	}
	if f.Type != FieldBool {
		t.Errorf("expected FieldBool, got %s", f.Type)
	}
	if f.Default != "true" {
		t.Errorf("expected backups to be required by default, got %q", f.Default)
	}
}

func TestFieldOptionValues(t *testing.T) {
	values := FieldOptionValues("log.level")
	want := []string{"debug", "info", "warn", "error"}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), values)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("value %d: expected %q, got %q", i, want[i], values[i])
		}
	}
}

func TestFieldOptionValues_UnknownKey(t *testing.T) {
	if values := FieldOptionValues("nope"); values != nil {
		t.Errorf("expected nil for unknown key, got %v", values)
	}
}

func TestFieldOptionValues_BoolField(t *testing.T) {
	if values := FieldOptionValues("output.color"); values != nil {
		t.Errorf("expected nil for bool field with no options, got %v", values)
	}
}

func TestFieldsCopySemantics(t *testing.T) {
	all := Fields()
	if len(all) == 0 {
		t.Fatal("Fields() returned empty")
	}
	all[0].Key = "mutated"
	original, ok := LookupField("backup.dir")
	if !ok {
		t.Fatal("LookupField failed after mutation")
	}
	if original.Key == "mutated" {
		t.Error("mutation of Fields() result affected the registry")
	}
}

func TestFieldsCopySemantics_Options(t *testing.T) {
	f, _ := LookupField("log.format")
	if len(f.Options) == 0 {
		t.Fatal("no options to test")
	}
	f.Options[0].Value = "mutated"
	f2, _ := LookupField("log.format")
	if f2.Options[0].Value == "mutated" {
		t.Error("mutation of LookupField result affected the registry")
	}
}

func TestFieldsRegistryConsistency(t *testing.T) {
	seen := make(map[string]struct{})
	for _, f := range fields {
		if f.Key == "" {
			t.Error("field with empty key")
		}
		if _, dup := seen[f.Key]; dup {
			t.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Type == "" {
			t.Errorf("field %q has empty type", f.Key)
		}
		if f.Type == FieldEnum && !isValidOption(f.Key, f.Default) {
			t.Errorf("field %q default %q is not one of its options", f.Key, f.Default)
		}
	}
}
