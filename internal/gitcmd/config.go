package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a required gerrit.* setting that is absent.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("use 'git config gerrit.%s <value>' to set the value of '%s'", e.Key, e.Key)
}

// Kind is the expected type of a configuration value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// Value is a typed configuration value: exactly one of Str, Num, or Bool is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Str  string
	Num  int
	Bool bool
}

type schemaEntry struct {
	kind Kind
	def  string
	// required entries have no default; a miss is a ConfigError.
	required bool
}

// configSchema is the closed set of gerrit.* keys the toolkit reads.
var configSchema = map[string]schemaEntry{
	"host":           {kind: KindString, required: true},
	"project":        {kind: KindString, required: true},
	"port":           {kind: KindNumber, def: "29418"},
	"remote":         {kind: KindString, def: "origin"},
	"logformat":      {kind: KindString, def: "{number} {hash} {subject}"},
	"queryformat":    {kind: KindString, def: "{number} {subject}"},
	"unpickedformat": {kind: KindString, def: "{number} {hash} {subject}"},
	"fetchbranch":    {kind: KindString, def: ""},
	"checkoutbranch": {kind: KindString, def: ""},
	"no-branch":      {kind: KindBool, def: "false"},
}

// DefaultsFile is an optional per-repository YAML file, read from the work
// tree root, providing defaults that git config overrides.
const DefaultsFile = ".git-gerrit.yml"

type defaultsFile struct {
	Gerrit map[string]string `yaml:"gerrit"`
}

// Config reads gerrit.<name> from git config, falling back to the
// .git-gerrit.yml defaults file and then the schema default. A missing
// required key yields a *ConfigError; an unknown key is a programming
// error.
func (g *Git) Config(ctx context.Context, name string) (Value, error) {
	entry, ok := configSchema[name]
	if !ok {
		return Value{}, fmt.Errorf("unknown config item gerrit.%s", name)
	}

	raw, found, err := g.configGet(ctx, name)
	if err != nil {
		return Value{}, err
	}
	if !found {
		raw, found = g.fileDefault(ctx, name)
	}
	if !found {
		if entry.required {
			return Value{}, &ConfigError{Key: name}
		}
		raw = entry.def
	}
	return parseValue(name, raw, entry.kind)
}

// ConfigString reads a string-typed key.
func (g *Git) ConfigString(ctx context.Context, name string) (string, error) {
	v, err := g.Config(ctx, name)
	if err != nil {
		return "", err
	}
	if v.Kind != KindString {
		return "", fmt.Errorf("config item gerrit.%s is not a string", name)
	}
	return v.Str, nil
}

// ConfigInt reads a number-typed key.
func (g *Git) ConfigInt(ctx context.Context, name string) (int, error) {
	v, err := g.Config(ctx, name)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("config item gerrit.%s is not a number", name)
	}
	return v.Num, nil
}

// ConfigBool reads a boolean-typed key.
func (g *Git) ConfigBool(ctx context.Context, name string) (bool, error) {
	v, err := g.Config(ctx, name)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, fmt.Errorf("config item gerrit.%s is not a boolean", name)
	}
	return v.Bool, nil
}

// configGet runs git config --get; exit status 1 means the key is unset.
func (g *Git) configGet(ctx context.Context, name string) (string, bool, error) {
	out, err := g.run(ctx, "config", "--get", "gerrit."+name)
	if err == nil {
		return strings.TrimSpace(out), true, nil
	}
	var ge *GitError
	if errors.As(err, &ge) {
		var exit *exec.ExitError
		if errors.As(ge.Err, &exit) && exit.ExitCode() == 1 {
			return "", false, nil
		}
	}
	return "", false, err
}

// fileDefault looks name up in the .git-gerrit.yml defaults file, loading
// it once per handle. A missing or unreadable file simply yields no
// defaults.
func (g *Git) fileDefault(ctx context.Context, name string) (string, bool) {
	if !g.fileLoaded {
		g.fileLoaded = true
		g.fileDefaults = loadDefaults(g.worktreeRoot(ctx))
	}
	v, ok := g.fileDefaults[name]
	return v, ok
}

func (g *Git) worktreeRoot(ctx context.Context) string {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return out
}

func loadDefaults(root string) map[string]string {
	if root == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(root, DefaultsFile))
	if err != nil {
		return nil
	}
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f.Gerrit
}

// parseValue coerces raw to the declared kind.
func parseValue(name, raw string, kind Kind) (Value, error) {
	switch kind {
	case KindString:
		return Value{Kind: KindString, Str: raw}, nil
	case KindNumber:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("git config item gerrit.%s should be a number", name)
		}
		return Value{Kind: KindNumber, Num: n}, nil
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes":
			return Value{Kind: KindBool, Bool: true}, nil
		case "false", "0", "no":
			return Value{Kind: KindBool, Bool: false}, nil
		default:
			return Value{}, fmt.Errorf("git config item gerrit.%s should be a boolean", name)
		}
	default:
		return Value{}, fmt.Errorf("bad schema kind %d for gerrit.%s", kind, name)
	}
}
