package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPolicyMissingFileUsesDefaults(t *testing.T) {
	p, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := DefaultPolicy()
	if len(p.GradeBands) != len(def.GradeBands) {
		t.Fatalf("got %d bands, want %d", len(p.GradeBands), len(def.GradeBands))
	}
	if p.BestInternal.Method != "best" {
		t.Fatalf("default method = %q", p.BestInternal.Method)
	}
}

func TestLoadPolicyParsesAndSortsBands(t *testing.T) {
	yaml := `
grade_bands:
  - {min_percent: 0, grade: F, grade_point: 0}
  - {min_percent: 50, grade: P, grade_point: 5}
  - {min_percent: 85, grade: O, grade_point: 10}
best_internal:
  method: weighted
  weight1: 0.6
  weight2: 0.4
attainment:
  direct_weight: 0.7
  indirect_weight: 0.3
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.GradeBands[0].Grade != "O" || p.GradeBands[len(p.GradeBands)-1].Grade != "F" {
		t.Fatalf("bands not sorted descending: %+v", p.GradeBands)
	}
	if p.BestInternal.Method != "weighted" || p.BestInternal.Weight1 != 0.6 {
		t.Fatalf("best_internal not parsed: %+v", p.BestInternal)
	}
	if p.Attainment.DirectWeight != 0.7 || p.Attainment.IndirectWeight != 0.3 {
		t.Fatalf("blend weights not parsed: %+v", p.Attainment)
	}
}

func TestLoadPolicyRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"band out of range": `
grade_bands:
  - {min_percent: 120, grade: X, grade_point: 10}
`,
		"bad method": `
best_internal:
  method: median
`,
		"zero blend": `
attainment:
  direct_weight: 0
  indirect_weight: 0
`,
		"no floor band": `
grade_bands:
  - {min_percent: 80, grade: A, grade_point: 9}
  - {min_percent: 40, grade: D, grade_point: 5}
`,
	}
	for name, yaml := range cases {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadPolicy(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
