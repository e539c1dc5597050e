package gitcmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseValueString(t *testing.T) {
	v, err := parseValue("host", "gerrit.example.com", KindString)
	if err != nil {
		t.Fatalf("parseValue() error: %v", err)
	}
	if v.Kind != KindString || v.Str != "gerrit.example.com" {
		t.Errorf("v = %+v", v)
	}
}

func TestParseValueNumber(t *testing.T) {
	v, err := parseValue("port", " 29418 ", KindNumber)
	if err != nil {
		t.Fatalf("parseValue() error: %v", err)
	}
	if v.Num != 29418 {
		t.Errorf("Num = %d, want 29418", v.Num)
	}
	if _, err := parseValue("port", "not-a-number", KindNumber); err == nil {
		t.Error("parseValue(not-a-number) succeeded, want error")
	}
}

func TestParseValueBool(t *testing.T) {
	truthy := []string{"true", "1", "yes", "True", "YES"}
	falsy := []string{"false", "0", "no", "False", "NO"}
	for _, raw := range truthy {
		v, err := parseValue("no-branch", raw, KindBool)
		if err != nil || !v.Bool {
			t.Errorf("parseValue(%q) = %+v, %v; want true", raw, v, err)
		}
	}
	for _, raw := range falsy {
		v, err := parseValue("no-branch", raw, KindBool)
		if err != nil || v.Bool {
			t.Errorf("parseValue(%q) = %+v, %v; want false", raw, v, err)
		}
	}
	if _, err := parseValue("no-branch", "maybe", KindBool); err == nil {
		t.Error("parseValue(maybe) succeeded, want error")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Key: "host"}
	want := "use 'git config gerrit.host <value>' to set the value of 'host'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSchemaDefaults(t *testing.T) {
	cases := map[string]string{
		"port":           "29418",
		"remote":         "origin",
		"logformat":      "{number} {hash} {subject}",
		"queryformat":    "{number} {subject}",
		"unpickedformat": "{number} {hash} {subject}",
	}
	for key, want := range cases {
		entry, ok := configSchema[key]
		if !ok {
			t.Errorf("schema missing %q", key)
			continue
		}
		if entry.def != want {
			t.Errorf("default for %q = %q, want %q", key, entry.def, want)
		}
	}
	for _, key := range []string{"host", "project"} {
		if !configSchema[key].required {
			t.Errorf("%q should be required", key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "gerrit:\n  host: gerrit.example.com\n  project: myproject\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultsFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	defaults := loadDefaults(dir)
	if defaults["host"] != "gerrit.example.com" {
		t.Errorf("host = %q", defaults["host"])
	}
	if defaults["project"] != "myproject" {
		t.Errorf("project = %q", defaults["project"])
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	if defaults := loadDefaults(t.TempDir()); defaults != nil {
		t.Errorf("loadDefaults() = %v, want nil for a missing file", defaults)
	}
	if defaults := loadDefaults(""); defaults != nil {
		t.Errorf("loadDefaults(\"\") = %v, want nil", defaults)
	}
}
