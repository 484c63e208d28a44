// Package config holds the solver's configuration record and the logic to
// assemble it from defaults, YAML files, generic option maps and flags.
package config

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Heuristic names a branching heuristic.
type Heuristic string

// RestartPolicy names a restart strategy.
type RestartPolicy string

// ProgressLevel controls how much progress reporting is emitted.
type ProgressLevel string

const (
	HeuristicFirstUnassigned = Heuristic("first_unassigned")
	HeuristicDecay           = Heuristic("decay")
	HeuristicVMTF            = Heuristic("vmtf")
	HeuristicVSIDS           = Heuristic("vsids")

	RestartNone       = RestartPolicy("none")
	RestartFixed      = RestartPolicy("fixed")
	RestartGeometric  = RestartPolicy("geometric")
	RestartLuby       = RestartPolicy("luby")
	RestartGlucoseEma = RestartPolicy("glucose_ema")

	ProgressOff    = ProgressLevel("off")
	ProgressShort  = ProgressLevel("short")
	ProgressMedium = ProgressLevel("medium")
	ProgressLong   = ProgressLevel("long")
)

var (
	heuristics = []Heuristic{HeuristicFirstUnassigned, HeuristicDecay, HeuristicVMTF, HeuristicVSIDS}
	policies   = []RestartPolicy{RestartNone, RestartFixed, RestartGeometric, RestartLuby, RestartGlucoseEma}
	progresses = []ProgressLevel{ProgressOff, ProgressShort, ProgressMedium, ProgressLong}
)

// Config is the solver configuration record.
type Config struct {
	Heuristic     Heuristic     `yaml:"heuristic" mapstructure:"heuristic"`
	RestartPolicy RestartPolicy `yaml:"restart_policy" mapstructure:"restart_policy"`
	Inprocessing  bool          `yaml:"inprocessing" mapstructure:"inprocessing"`
	ProofPath     string        `yaml:"proof_path" mapstructure:"proof_path"`
	Progress      ProgressLevel `yaml:"progress" mapstructure:"progress"`
	// PhaseTrue makes fresh variables branch true first instead of false.
	PhaseTrue bool `yaml:"phase_true" mapstructure:"phase_true"`
	// BveMaxResolventLen is the length cap above which a resolvent forbids
	// eliminating its variable.
	BveMaxResolventLen int `yaml:"bve_max_resolvent_len" mapstructure:"bve_max_resolvent_len"`
	// BveOccurrenceCap skips variables whose positive/negative occurrence
	// product exceeds it.
	BveOccurrenceCap int `yaml:"bve_occurrence_cap" mapstructure:"bve_occurrence_cap"`
	// BveSlack is how many extra resolvents over |P|+|N| elimination may keep.
	BveSlack int `yaml:"bve_slack" mapstructure:"bve_slack"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Heuristic:          HeuristicVSIDS,
		RestartPolicy:      RestartGlucoseEma,
		Inprocessing:       true,
		Progress:           ProgressMedium,
		BveMaxResolventLen: 12,
		BveOccurrenceCap:   10000,
	}
}

// Validate reports whether the record only uses recognized option values.
func (c Config) Validate() error {
	if !lo.Contains(heuristics, c.Heuristic) {
		return errors.Errorf("unknown heuristic %q", c.Heuristic)
	}
	if !lo.Contains(policies, c.RestartPolicy) {
		return errors.Errorf("unknown restart policy %q", c.RestartPolicy)
	}
	if !lo.Contains(progresses, c.Progress) {
		return errors.Errorf("unknown progress level %q", c.Progress)
	}
	if c.BveMaxResolventLen < 1 {
		return errors.Errorf("invalid resolvent length cap %d", c.BveMaxResolventLen)
	}
	if c.BveOccurrenceCap < 1 {
		return errors.Errorf("invalid occurrence cap %d", c.BveOccurrenceCap)
	}
	if c.BveSlack < 0 {
		return errors.Errorf("invalid slack %d", c.BveSlack)
	}
	return nil
}

// LoadFile overlays the YAML file at path on top of c and validates the
// result.
func (c Config) LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "could not read config %q", path)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, errors.Wrapf(err, "could not parse config %q", path)
	}
	return c, c.Validate()
}

// FromMap overlays a generic option map (as handed over by host programs) on
// top of c and validates the result.
func (c Config) FromMap(opts map[string]interface{}) (Config, error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return c, errors.Wrap(err, "could not build option decoder")
	}
	if err := dec.Decode(opts); err != nil {
		return c, errors.Wrap(err, "invalid options")
	}
	return c, c.Validate()
}
