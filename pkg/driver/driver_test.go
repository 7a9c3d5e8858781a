package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"metajs/pkg/vm"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metajs.toml")
	content := `
[runtime]
max_prototype_depth = 32

[log]
verbosity = 2
file = "metajs.log"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := &Config{
		Runtime: RuntimeConfig{MaxPrototypeDepth: 32},
		Log:     LogConfig{Verbosity: 2, File: "metajs.log"},
		Path:    path,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Runtime.MaxPrototypeDepth != vm.DefaultMaxPrototypeDepth {
		t.Errorf("Expected default depth, got %d", cfg.Runtime.MaxPrototypeDepth)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.toml")
	if err := os.WriteFile(path, []byte("[log]\nverbosity = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Runtime.MaxPrototypeDepth != vm.DefaultMaxPrototypeDepth {
		t.Errorf("Missing runtime section should keep the default depth, got %d", cfg.Runtime.MaxPrototypeDepth)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[runtime\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("Expected a parse error, got %v", err)
	}
}

func TestRunScenarioFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			sc, err := LoadScenario(file)
			if err != nil {
				t.Fatalf("LoadScenario failed: %v", err)
			}
			results, err := newTestSession(t).RunScenario(sc)
			if err != nil {
				t.Fatalf("RunScenario failed: %v", err)
			}
			if len(results) != len(sc.Steps) {
				t.Errorf("Expected %d results, got %d", len(sc.Steps), len(results))
			}
		})
	}
}

func TestScenarioExpectationMismatch(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: mismatch
steps:
  - {op: tonumber, target: "12", expect: "12"}
  - {op: tonumber, target: "abc", expect: "0"}
  - {op: tonumber, target: 1}
`))
	if err != nil {
		t.Fatalf("ParseScenario failed: %v", err)
	}
	results, err := newTestSession(t).RunScenario(sc)
	var mismatch *ExpectationError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected an ExpectationError, got %v", err)
	}
	if mismatch.Step != 2 || mismatch.Want != "0" || mismatch.Got != "NaN" {
		t.Errorf("Unexpected mismatch %+v", mismatch)
	}
	if len(results) != 1 {
		t.Errorf("Expected the results before the failure, got %d", len(results))
	}
}

func TestScenarioUnexpectedError(t *testing.T) {
	sc, err := ParseScenario([]byte(`
steps:
  - {op: get, target: !undefined, key: x}
`))
	if err != nil {
		t.Fatalf("ParseScenario failed: %v", err)
	}
	_, err = newTestSession(t).RunScenario(sc)
	if err == nil || !strings.Contains(err.Error(), "reading 'x'") {
		t.Errorf("Expected the property error to propagate, got %v", err)
	}

	sc, _ = ParseScenario([]byte(`
steps:
  - {op: tonumber, target: 1, expect_error: TypeError}
`))
	_, err = newTestSession(t).RunScenario(sc)
	var mismatch *ExpectationError
	if !errors.As(err, &mismatch) {
		t.Errorf("A missing expected error should be a mismatch, got %v", err)
	}
}

func TestScenarioBoxingAndConstruction(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: boxing
steps:
  - {op: toobject, target: true, expect: "true"}
  - {op: toobject, target: 3.5, expect: "3.5"}
  - {op: toobject, target: x, expect: x}
  - {op: new, target: !global Number, args: ["42"], expect: "42"}
  - {op: get, target: héllo, key: length, expect: "5"}
  - {op: arith, operator: "+", left: a, right: 1, expect: a1}
  - {op: equal, left: "1", right: 1, expect: "true"}
`))
	if err != nil {
		t.Fatalf("ParseScenario failed: %v", err)
	}
	s := newTestSession(t)
	results, err := s.RunScenario(sc)
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}

	boxed := results[0].Value
	if boxed.Type() != vm.TypeObject {
		t.Fatalf("toobject should yield an object, got %s", boxed.Type())
	}
	if p := vm.ToPrimitive(boxed); !p.StrictlyEquals(vm.True) {
		t.Errorf("Boxed boolean should unwrap to true, got %s", p.String())
	}
	if !vm.WithinNew(results[3].Value, s.Realm().NumberPrototype) {
		t.Errorf("new Number should be wired to Number.prototype")
	}
}

func TestScenarioObjectErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown prototype", `objects: [{name: a, prototype: nowhere}]`, "unknown prototype"},
		{"duplicate", `objects: [{name: a}, {name: a}]`, "declared twice"},
		{"unnamed", `objects: [{data: {x: 1}}]`, "name is required"},
		{"unknown ref", `objects: [{name: a, data: {x: !ref b}}]`, "unknown object"},
		{"bad setter", `objects: [{name: a, setters: {x: 1}}]`, "must be a property name"},
		{"object primitive", `objects: [{name: a, primitive: !ref a}]`, "must not be an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ParseScenario([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseScenario failed: %v", err)
			}
			_, err = newTestSession(t).RunScenario(sc)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseScenarioErrors(t *testing.T) {
	for _, src := range []string{
		`steps: [{op: get, target: [1, 2]}]`,
		`steps: [{op: get, target: !weird x}]`,
		`objects: [{name: a, data: [1]}]`,
	} {
		if _, err := ParseScenario([]byte(src)); err == nil {
			t.Errorf("Expected a parse error for %s", src)
		}
	}
}

func TestSessionDepthFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runtime.MaxPrototypeDepth = 2
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	sc, _ := ParseScenario([]byte(`
objects:
  - {name: a, prototype: "null"}
  - {name: b, prototype: a}
  - {name: c, prototype: b}
  - {name: d, prototype: c}
steps:
  - {op: get, target: !ref d, key: missing, expect_error: exceeds 2 links}
`))
	if _, err := s.RunScenario(sc); err != nil {
		t.Errorf("RunScenario failed: %v", err)
	}
}
