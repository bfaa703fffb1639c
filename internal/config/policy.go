package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// AcademicPolicy holds the institution-tunable tables the engine consumes:
// grade bands, the best-internal method, the direct/indirect attainment
// blend and default CO threshold levels. Kept as data so institutions can
// change cutoffs without recompiling.
type AcademicPolicy struct {
	GradeBands []GradeBand `yaml:"grade_bands"`

	BestInternal BestInternalPolicy `yaml:"best_internal"`

	Attainment AttainmentPolicy `yaml:"attainment"`
}

type GradeBand struct {
	MinPercent float64 `yaml:"min_percent"`
	Grade      string  `yaml:"grade"`
	GradePoint float64 `yaml:"grade_point"`
}

type BestInternalPolicy struct {
	Method  string  `yaml:"method"` // best | avg | weighted
	Weight1 float64 `yaml:"weight1"`
	Weight2 float64 `yaml:"weight2"`
}

type AttainmentPolicy struct {
	DirectWeight   float64 `yaml:"direct_weight"`
	IndirectWeight float64 `yaml:"indirect_weight"`

	// Defaults applied when a CO is created without explicit thresholds.
	DefaultL1     float64 `yaml:"default_l1"`
	DefaultL2     float64 `yaml:"default_l2"`
	DefaultL3     float64 `yaml:"default_l3"`
	DefaultTarget float64 `yaml:"default_target"`
}

// DefaultPolicy mirrors a common NBA configuration; used when no policy
// file is present.
func DefaultPolicy() AcademicPolicy {
	return AcademicPolicy{
		GradeBands: []GradeBand{
			{MinPercent: 90, Grade: "A+", GradePoint: 10},
			{MinPercent: 80, Grade: "A", GradePoint: 9},
			{MinPercent: 70, Grade: "B+", GradePoint: 8},
			{MinPercent: 60, Grade: "B", GradePoint: 7},
			{MinPercent: 50, Grade: "C", GradePoint: 6},
			{MinPercent: 40, Grade: "D", GradePoint: 5},
			{MinPercent: 0, Grade: "F", GradePoint: 0},
		},
		BestInternal: BestInternalPolicy{Method: "best", Weight1: 0.5, Weight2: 0.5},
		Attainment: AttainmentPolicy{
			DirectWeight:   0.8,
			IndirectWeight: 0.2,
			DefaultL1:      40,
			DefaultL2:      60,
			DefaultL3:      70,
			DefaultTarget:  70,
		},
	}
}

// LoadPolicy reads the academic policy YAML. A missing file is not an
// error: the default policy is returned so a bare checkout still runs.
func LoadPolicy(path string) (AcademicPolicy, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return AcademicPolicy{}, err
	}
	p := DefaultPolicy()
	if err := yaml.Unmarshal(buf, &p); err != nil {
		return AcademicPolicy{}, fmt.Errorf("parse academic policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return AcademicPolicy{}, err
	}
	// Bands are matched top-down; keep them sorted by cutoff descending.
	sort.Slice(p.GradeBands, func(i, j int) bool {
		return p.GradeBands[i].MinPercent > p.GradeBands[j].MinPercent
	})
	return p, nil
}

func (p AcademicPolicy) Validate() error {
	if len(p.GradeBands) == 0 {
		return fmt.Errorf("academic policy: no grade bands")
	}
	hasFloor := false
	for _, b := range p.GradeBands {
		if b.MinPercent < 0 || b.MinPercent > 100 {
			return fmt.Errorf("academic policy: band %q cutoff %.2f out of [0,100]", b.Grade, b.MinPercent)
		}
		if b.GradePoint < 0 || b.GradePoint > 10 {
			return fmt.Errorf("academic policy: band %q grade point %.2f out of [0,10]", b.Grade, b.GradePoint)
		}
		if b.MinPercent == 0 {
			hasFloor = true
		}
	}
	// Every percentage must land in some band, so one band must start at 0.
	if !hasFloor {
		return fmt.Errorf("academic policy: grade bands need a 0-cutoff band")
	}
	w := p.Attainment.DirectWeight + p.Attainment.IndirectWeight
	if w <= 0 {
		return fmt.Errorf("academic policy: attainment blend weights sum to %.2f", w)
	}
	switch p.BestInternal.Method {
	case "best", "avg", "weighted":
	default:
		return fmt.Errorf("academic policy: unknown best_internal method %q", p.BestInternal.Method)
	}
	return nil
}
