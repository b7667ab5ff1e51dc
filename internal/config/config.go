package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"power-sim/internal/model"
)

// maxExtendsDepth bounds chains of scenario files extending each other.
const maxExtendsDepth = 4

// Config is the on-disk scenario shape (YAML). The same field names are
// accepted as JSON by the HTTP API.
type Config struct {
	// Optional: start from another scenario file instead of the defaults.
	// Relative paths resolve against the directory of the extending file.
	Extends     string           `yaml:"extends,omitempty" json:"-"`
	Description string           `yaml:"description,omitempty" json:"-"`
	Regime      RegimeConfig     `yaml:"regime" json:"regime"`
	Heston      HestonConfig     `yaml:"heston" json:"heston"`
	Jump        JumpConfig       `yaml:"jump" json:"jump"`
	Simulation  SimulationConfig `yaml:"simulation" json:"simulation"`
	Output      OutputConfig     `yaml:"output" json:"output"`
	Logging     LoggingConfig    `yaml:"logging" json:"-"`
}

type RegimeConfig struct {
	Lambda01              float64 `yaml:"lambda_01" json:"lambda_01" default:"0.1" validate:"gte=0"`
	Lambda10              float64 `yaml:"lambda_10" json:"lambda_10" default:"0.3" validate:"gte=0"`
	CalmMu                float64 `yaml:"calm_mu" json:"calm_mu"`
	StressedMu            float64 `yaml:"stressed_mu" json:"stressed_mu"`
	CalmVolMultiplier     float64 `yaml:"calm_vol_multiplier" json:"calm_vol_multiplier" default:"1.0" validate:"gte=0"`
	StressedVolMultiplier float64 `yaml:"stressed_vol_multiplier" json:"stressed_vol_multiplier" default:"2.5" validate:"gte=0"`
}

type HestonConfig struct {
	Kappa  float64 `yaml:"kappa" json:"kappa" default:"2.0" validate:"gt=0"`
	Theta  float64 `yaml:"theta" json:"theta" default:"0.04" validate:"gt=0"`
	SigmaV float64 `yaml:"sigma_v" json:"sigma_v" default:"0.5" validate:"gte=0"`
	Rho    float64 `yaml:"rho" json:"rho" default:"-0.5" validate:"gte=-1,lte=1"`
	V0     float64 `yaml:"v0" json:"v0" default:"0.04" validate:"gt=0"`
	S0     float64 `yaml:"s0" json:"s0" default:"100.0" validate:"gt=0"`
}

type JumpConfig struct {
	Intensity float64 `yaml:"intensity" json:"intensity" default:"3.0" validate:"gte=0"`
	MeanJump  float64 `yaml:"mean_jump" json:"mean_jump" default:"0.08"`
	StdJump   float64 `yaml:"std_jump" json:"std_jump" default:"0.25" validate:"gte=0"`
}

type SimulationConfig struct {
	TEnd          float64 `yaml:"t_end" json:"t_end" default:"1.0" validate:"gt=0"`
	Dt            float64 `yaml:"dt" json:"dt" default:"0.00011415525114155251" validate:"gt=0"`
	NumPaths      int     `yaml:"num_paths" json:"num_paths" default:"200" validate:"gt=0"`
	Seed          uint64  `yaml:"seed" json:"seed" default:"42"`
	VarianceFloor float64 `yaml:"variance_floor" json:"variance_floor" default:"1e-8" validate:"gt=0"`
}

type OutputConfig struct {
	Dir         string    `yaml:"dir" json:"-" default:"outputs"`
	Percentiles []float64 `yaml:"percentiles" json:"percentiles" default:"[5,50,95]" validate:"min=1,dive,gte=0,lte=100"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stderr"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Default returns the built-in scenario (one year, hourly, 200 paths).
func Default() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		// Tags are static; failing here is a programming error.
		panic(fmt.Errorf("config defaults: %w", err))
	}
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a scenario (following extends) over the defaults, but
// does not validate it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	return loadDepth(path, 0)
}

func loadDepth(path string, depth int) (*Config, error) {
	if depth > maxExtendsDepth {
		return nil, fmt.Errorf("scenario %s: extends chain deeper than %d", path, maxExtendsDepth)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	base := Default()
	if head.Extends != "" {
		basePath := head.Extends
		if !filepath.IsAbs(basePath) {
			// Prefer interpreting relative paths as relative to the scenario file,
			// but fall back to the provided path (relative to cwd).
			cand := filepath.Join(filepath.Dir(path), basePath)
			if _, err := os.Stat(cand); err == nil {
				basePath = cand
			}
		}
		base, err = loadDepth(basePath, depth+1)
		if err != nil {
			return nil, fmt.Errorf("scenario %s extends %s: %w", path, head.Extends, err)
		}
	}

	if err := decodeYAML(raw, base); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	base.Extends = head.Extends
	return base, nil
}

// Parse decodes a YAML document over the defaults without validating it.
func Parse(raw []byte) (*Config, error) {
	c := Default()
	if err := decodeYAML(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeYAML(raw []byte, into *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyJSON overlays a partial JSON document (same field names as the YAML
// file) onto c. Fields absent from the document keep their current values;
// explicit zeros are honored.
func (c *Config) ApplyJSON(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return &model.ConfigurationError{Field: "overrides", Reason: err.Error()}
	}
	return nil
}

// Validate runs the struct tag rules and then the model-level checks that
// depend on several fields (intensity*dt bounds).
func (c *Config) Validate() error {
	_, _, err := c.Resolve()
	return err
}

// Resolve validates the scenario and returns the engine inputs together with
// the grid they run on.
func (c *Config) Resolve() (model.Inputs, model.TimeGrid, error) {
	if c == nil {
		return model.Inputs{}, model.TimeGrid{}, errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return model.Inputs{}, model.TimeGrid{}, translate(err)
	}
	in := c.Inputs()
	grid, err := in.Validate()
	if err != nil {
		return model.Inputs{}, model.TimeGrid{}, err
	}
	return in, grid, nil
}

// Inputs converts the scenario into the engine's value objects.
func (c *Config) Inputs() model.Inputs {
	return model.Inputs{
		Regime: model.RegimeParams{
			Lambda01:              c.Regime.Lambda01,
			Lambda10:              c.Regime.Lambda10,
			CalmMu:                c.Regime.CalmMu,
			StressedMu:            c.Regime.StressedMu,
			CalmVolMultiplier:     c.Regime.CalmVolMultiplier,
			StressedVolMultiplier: c.Regime.StressedVolMultiplier,
		},
		Heston: model.HestonParams{
			Kappa:  c.Heston.Kappa,
			Theta:  c.Heston.Theta,
			SigmaV: c.Heston.SigmaV,
			Rho:    c.Heston.Rho,
			V0:     c.Heston.V0,
			S0:     c.Heston.S0,
		},
		Jump: model.JumpParams{
			Intensity: c.Jump.Intensity,
			MeanJump:  c.Jump.MeanJump,
			StdJump:   c.Jump.StdJump,
		},
		Simulation: model.SimulationParams{
			TEnd:          c.Simulation.TEnd,
			Dt:            c.Simulation.Dt,
			NumPaths:      c.Simulation.NumPaths,
			Seed:          c.Simulation.Seed,
			VarianceFloor: c.Simulation.VarianceFloor,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Output.Percentiles = append([]float64(nil), c.Output.Percentiles...)
	return &out
}

// YAML renders the scenario as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// translate turns the first validator failure into a ConfigurationError
// naming the YAML field, e.g. "heston.rho".
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	reason := "failed " + fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return &model.ConfigurationError{Field: field, Reason: fmt.Sprintf("%s, got %v", reason, fe.Value())}
}
