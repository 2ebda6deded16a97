package kernel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/tuplog/rules"
	"github.com/gnolang/tuplog/verifier"
)

// DefaultConfigFile is the configuration file looked up by the CLI.
const DefaultConfigFile = ".tuplog.yaml"

// Config represents the verification settings read from a YAML file.
type Config struct {
	Name         string `yaml:"name"`
	Threading    string `yaml:"threading"`
	Substitution string `yaml:"substitution"`
	// MaxDepth and MaxSteps bound the proofs handed to the verifier.
	// Zero disables the limit.
	MaxDepth int `yaml:"max_depth"`
	MaxSteps int `yaml:"max_steps"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:         "tuplog",
		Threading:    verifier.ThreadingConventional.String(),
		Substitution: rules.SubstitutionCorrected.String(),
		MaxDepth:     256,
		MaxSteps:     1 << 20,
	}
}

// LoadConfig reads the configuration at path on top of the defaults.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := config.VerifierConfig(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// VerifierConfig converts the textual modes.
func (c Config) VerifierConfig() (verifier.Config, error) {
	threading, err := verifier.ParseThreadingMode(c.Threading)
	if err != nil {
		return verifier.Config{}, err
	}
	substitution, err := rules.ParseSubstitutionMode(c.Substitution)
	if err != nil {
		return verifier.Config{}, err
	}
	return verifier.Config{Threading: threading, Substitution: substitution}, nil
}

// Fingerprint identifies the settings that affect verification outcomes.
func (c Config) Fingerprint() string {
	vc, err := c.VerifierConfig()
	if err != nil {
		return "invalid"
	}
	return fmt.Sprintf("%s/%s/depth=%d/steps=%d",
		vc.Threading, vc.Substitution, c.MaxDepth, c.MaxSteps)
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
