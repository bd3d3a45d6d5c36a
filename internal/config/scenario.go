package config

import (
	"fmt"
	"os"

	"github.com/jbeda/geom"
	"gopkg.in/yaml.v3"

	"github.com/kyiku/aggpack/internal/geometry"
)

// ErrConfiguration marks fatal scenario validation failures. They are
// raised before any sampling begins and never retried.
var ErrConfiguration = fmt.Errorf("configuration error")

// Generation modes.
const (
	ModeCount    = "count"
	ModePorosity = "porosity"
)

// Shape kinds accepted in a scenario.
const (
	ShapeCircle  = "circle"
	ShapeEllipse = "ellipse"
	ShapePolygon = "polygon"
)

// RegionConfig describes the bounding region.
type RegionConfig struct {
	Kind     string  `yaml:"kind" json:"kind"` // rectangle | circle
	MinX     float64 `yaml:"min_x" json:"min_x"`
	MinY     float64 `yaml:"min_y" json:"min_y"`
	MaxX     float64 `yaml:"max_x" json:"max_x"`
	MaxY     float64 `yaml:"max_y" json:"max_y"`
	CenterX  float64 `yaml:"center_x" json:"center_x"`
	CenterY  float64 `yaml:"center_y" json:"center_y"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
}

// Region converts the config to a geometry region.
func (rc RegionConfig) Region() geometry.Region {
	if rc.Kind == string(geometry.RegionCircle) {
		return geometry.CircleRegion(geom.Coord{X: rc.CenterX, Y: rc.CenterY}, rc.Diameter/2)
	}
	return geometry.RectRegion(rc.MinX, rc.MinY, rc.MaxX, rc.MaxY)
}

// ShapeConfig describes one weighted shape form within a class.
type ShapeConfig struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Weight float64 `yaml:"weight" json:"weight"`

	// circle
	MinRadius float64 `yaml:"min_radius" json:"min_radius"`
	MaxRadius float64 `yaml:"max_radius" json:"max_radius"`

	// polygon
	MinSize       float64 `yaml:"min_size" json:"min_size"`
	MaxSize       float64 `yaml:"max_size" json:"max_size"`
	MinSides      int     `yaml:"min_sides" json:"min_sides"`
	MaxSides      int     `yaml:"max_sides" json:"max_sides"`
	Irregularity  float64 `yaml:"irregularity" json:"irregularity"`
	Spikiness     float64 `yaml:"spikiness" json:"spikiness"`
	OptimizeEdges bool    `yaml:"optimize_edges" json:"optimize_edges"`
	MinEdgeLength float64 `yaml:"min_edge_length" json:"min_edge_length"` // 0 means size/10

	// ellipse
	MinMajor float64 `yaml:"min_major" json:"min_major"`
	MaxMajor float64 `yaml:"max_major" json:"max_major"`
	MinMinor float64 `yaml:"min_minor" json:"min_minor"`
	MaxMinor float64 `yaml:"max_minor" json:"max_minor"`
	Segments int     `yaml:"segments" json:"segments"`
}

// ClassConfig describes one size class of the mix.
type ClassConfig struct {
	AreaRatio float64       `yaml:"area_ratio" json:"area_ratio"` // percent of region area
	ITZ       float64       `yaml:"itz" json:"itz"`               // margin added to the required gap
	MaxCount  int           `yaml:"max_count" json:"max_count"`
	Color     string        `yaml:"color" json:"color"`
	Shapes    []ShapeConfig `yaml:"shapes" json:"shapes"`
}

// Scenario holds every parameter of one generation run.
type Scenario struct {
	Region             RegionConfig  `yaml:"region" json:"region"`
	Mode               string        `yaml:"mode" json:"mode"`
	TargetCount        int           `yaml:"target_count" json:"target_count"`
	TargetPorosity     float64       `yaml:"target_porosity" json:"target_porosity"` // percent
	Classes            []ClassConfig `yaml:"classes" json:"classes"`
	MinDistance        float64       `yaml:"min_distance" json:"min_distance"`
	BoundaryClearance  float64       `yaml:"boundary_clearance" json:"boundary_clearance"`
	AdjacencyThreshold float64       `yaml:"adjacency_threshold" json:"adjacency_threshold"`
	MaxAttempts        int           `yaml:"max_attempts" json:"max_attempts"`
	MaxStreak          int           `yaml:"max_streak" json:"max_streak"`
	Seed               int64         `yaml:"seed" json:"seed"`
}

// DefaultScenario mirrors the historical defaults: a 100x100 rectangle
// filled with a single class of small circles and polygons.
func DefaultScenario() *Scenario {
	return &Scenario{
		Region:         RegionConfig{Kind: "rectangle", MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		Mode:           ModeCount,
		TargetCount:    200,
		TargetPorosity: 25,
		Classes: []ClassConfig{
			{
				AreaRatio: 100,
				ITZ:       0,
				MaxCount:  500,
				Color:     "red",
				Shapes: []ShapeConfig{
					{Kind: ShapeCircle, Weight: 1, MinRadius: 2, MaxRadius: 5},
					{
						Kind: ShapePolygon, Weight: 1,
						MinSize: 2, MaxSize: 8, MinSides: 3, MaxSides: 7,
						Irregularity: 0.3, Spikiness: 0.2, OptimizeEdges: true,
					},
				},
			},
		},
		MinDistance:        0,
		BoundaryClearance:  0,
		AdjacencyThreshold: 0,
		MaxAttempts:        20000,
		MaxStreak:          1000,
		Seed:               1,
	}
}

// Clone returns a deep copy. The class and shape slices are freshly
// allocated, so decoding a request body into the copy cannot touch the
// original.
func (s *Scenario) Clone() *Scenario {
	cp := *s
	cp.Classes = make([]ClassConfig, len(s.Classes))
	for i, class := range s.Classes {
		cp.Classes[i] = class
		cp.Classes[i].Shapes = append([]ShapeConfig(nil), class.Shapes...)
	}
	return &cp
}

// LoadScenario reads a YAML scenario preset, applying defaults for
// omitted fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return sc, nil
}

// Validate checks the scenario before any sampling begins.
func (s *Scenario) Validate() error {
	region := s.Region.Region()
	if region.Degenerate() {
		return fmt.Errorf("%w: degenerate region", ErrConfiguration)
	}
	if s.Mode != ModeCount && s.Mode != ModePorosity {
		return fmt.Errorf("%w: unknown mode %q", ErrConfiguration, s.Mode)
	}
	if s.Mode == ModeCount && s.TargetCount <= 0 {
		return fmt.Errorf("%w: target_count must be positive in count mode", ErrConfiguration)
	}
	if s.Mode == ModePorosity && (s.TargetPorosity < 0 || s.TargetPorosity > 100) {
		return fmt.Errorf("%w: target_porosity must be within [0, 100]", ErrConfiguration)
	}
	if len(s.Classes) == 0 {
		return fmt.Errorf("%w: at least one class is required", ErrConfiguration)
	}
	if s.MinDistance < 0 || s.BoundaryClearance < 0 || s.AdjacencyThreshold < 0 {
		return fmt.Errorf("%w: distances must not be negative", ErrConfiguration)
	}
	if s.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max_attempts must be positive", ErrConfiguration)
	}
	if s.MaxStreak <= 0 {
		return fmt.Errorf("%w: max_streak must be positive", ErrConfiguration)
	}

	ratioSum := 0.0
	for i, class := range s.Classes {
		if class.AreaRatio < 0 {
			return fmt.Errorf("%w: class %d area_ratio must not be negative", ErrConfiguration, i+1)
		}
		ratioSum += class.AreaRatio
		if class.ITZ < 0 {
			return fmt.Errorf("%w: class %d itz must not be negative", ErrConfiguration, i+1)
		}
		if class.MaxCount <= 0 {
			return fmt.Errorf("%w: class %d max_count must be positive", ErrConfiguration, i+1)
		}
		if len(class.Shapes) == 0 {
			return fmt.Errorf("%w: class %d has no shapes", ErrConfiguration, i+1)
		}
		weightSum := 0.0
		for j, sh := range class.Shapes {
			if sh.Weight < 0 {
				return fmt.Errorf("%w: class %d shape %d weight must not be negative", ErrConfiguration, i+1, j+1)
			}
			weightSum += sh.Weight
			if err := sh.validate(); err != nil {
				return fmt.Errorf("%w: class %d shape %d: %v", ErrConfiguration, i+1, j+1, err)
			}
		}
		if weightSum == 0 {
			return fmt.Errorf("%w: class %d shape weights sum to zero", ErrConfiguration, i+1)
		}
	}
	if ratioSum == 0 {
		return fmt.Errorf("%w: class area ratios sum to zero", ErrConfiguration)
	}
	return nil
}

func (sc ShapeConfig) validate() error {
	switch sc.Kind {
	case ShapeCircle:
		if sc.MinRadius <= 0 || sc.MaxRadius < sc.MinRadius {
			return fmt.Errorf("radius range [%g, %g] is invalid", sc.MinRadius, sc.MaxRadius)
		}
	case ShapePolygon:
		if sc.MinSize <= 0 || sc.MaxSize < sc.MinSize {
			return fmt.Errorf("size range [%g, %g] is invalid", sc.MinSize, sc.MaxSize)
		}
		if sc.MinSides < 3 || sc.MaxSides < sc.MinSides {
			return fmt.Errorf("sides range [%d, %d] is invalid", sc.MinSides, sc.MaxSides)
		}
		if sc.Irregularity < 0 || sc.Irregularity > 1 || sc.Spikiness < 0 || sc.Spikiness > 1 {
			return fmt.Errorf("irregularity and spikiness must be within [0, 1]")
		}
	case ShapeEllipse:
		if sc.MinMajor <= 0 || sc.MaxMajor < sc.MinMajor {
			return fmt.Errorf("major axis range [%g, %g] is invalid", sc.MinMajor, sc.MaxMajor)
		}
		if sc.MinMinor <= 0 || sc.MaxMinor < sc.MinMinor {
			return fmt.Errorf("minor axis range [%g, %g] is invalid", sc.MinMinor, sc.MaxMinor)
		}
	default:
		return fmt.Errorf("unknown shape kind %q", sc.Kind)
	}
	return nil
}

// MaxBoundingRadius returns the largest bounding radius any candidate
// from this scenario can have. Spiky polygons may reach 1.8x their
// nominal size.
func (s *Scenario) MaxBoundingRadius() float64 {
	max := 0.0
	for _, class := range s.Classes {
		for _, sh := range class.Shapes {
			var r float64
			switch sh.Kind {
			case ShapeCircle:
				r = sh.MaxRadius
			case ShapePolygon:
				r = sh.MaxSize * 1.8
			case ShapeEllipse:
				r = sh.MaxMajor
				if sh.MaxMinor > r {
					r = sh.MaxMinor
				}
			}
			if r > max {
				max = r
			}
		}
	}
	return max
}
