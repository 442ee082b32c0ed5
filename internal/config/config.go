package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/attractor/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath names the parameter file read by LoadFromEnv.
	EnvConfigPath = "ABOUND_CONFIG_PATH"
	// EnvOutputPath names the destination the image is written to.
	EnvOutputPath = "ABOUND_OUTPUT_PATH"
)

const (
	DefaultSigma      = 10.0
	DefaultRho        = 28.0
	DefaultBeta       = 8.0 / 3.0
	DefaultDt         = 0.01
	DefaultIterations = 10000
	DefaultResultSize = 512
)

var ErrEnvNotSet = errors.New("environment variable not set")

// Params is the full input of one render. It is a plain value: the
// pipeline receives a copy and never modifies it.
type Params struct {
	Sigma      float64 `yaml:"sigma" json:"sigma"`
	Rho        float64 `yaml:"rho" json:"rho"`
	Beta       float64 `yaml:"beta" json:"beta"`
	Dt         float64 `yaml:"dt" json:"dt"`
	Iterations int     `yaml:"iterations" json:"iterations"`
	ResultSize int     `yaml:"result_size" json:"result_size"`
}

func DefaultParams() Params {
	return Params{
		Sigma:      DefaultSigma,
		Rho:        DefaultRho,
		Beta:       DefaultBeta,
		Dt:         DefaultDt,
		Iterations: DefaultIterations,
		ResultSize: DefaultResultSize,
	}
}

// Parse decodes YAML or JSON over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Params{}, errors.New("configuration is empty")
		}
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading configuration file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Params{}, fmt.Errorf("configuration at '%s' is malformed: %w", path, err)
	}
	return p, nil
}

// LoadFromEnv loads the file named by ABOUND_CONFIG_PATH.
func LoadFromEnv() (Params, error) {
	path, err := envPath(EnvConfigPath)
	if err != nil {
		return Params{}, err
	}
	return Load(path)
}

// OutputPathFromEnv returns ABOUND_OUTPUT_PATH or an error if it is empty.
func OutputPathFromEnv() (string, error) {
	return envPath(EnvOutputPath)
}

func envPath(name string) (string, error) {
	path := os.Getenv(name)
	if path == "" {
		return "", fmt.Errorf("%w: was %s set?", ErrEnvNotSet, name)
	}
	return path, nil
}

func Save(path string, p Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the integer fields. Dt and the coefficients are taken
// as given; pathological values only make the trajectory diverge.
func (p Params) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", dynamo.ErrParameterBounds, p.Iterations)
	}
	if p.ResultSize < 1 {
		return fmt.Errorf("%w: result_size must be at least 1, got %d", dynamo.ErrParameterBounds, p.ResultSize)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("sigma=%g rho=%g beta=%g dt=%g iterations=%d result_size=%d",
		p.Sigma, p.Rho, p.Beta, p.Dt, p.Iterations, p.ResultSize)
}
