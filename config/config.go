// Package config holds the options of one secrets run and loads them from
// GitHub Action inputs, a YAML file and command-line flags.
package config

import (
	"github.com/useparagon/aws-secretsmanager-get-secrets/envname"
	"github.com/useparagon/aws-secretsmanager-get-secrets/inject"
	"github.com/useparagon/aws-secretsmanager-get-secrets/reference"
)

// Config is the configuration of one run.
type Config struct {
	// SecretIDs are reference lines of the form [ALIAS,]LOCATOR.
	SecretIDs      []string `yaml:"secret-ids"`
	OverwriteMode  string   `yaml:"overwrite-mode"`
	ParseJSON      bool     `yaml:"parse-json-secrets"`
	PublicEnvVars  []string `yaml:"public-env-vars"`
	PublicNumerics bool     `yaml:"public-numerics"`
	PublicValues   []string `yaml:"public-values"`
	// OutputFile, when set, receives one NAME=VALUE line per export.
	OutputFile string `yaml:"output-file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{OverwriteMode: string(envname.ModeDefault)}
}

// References parses SecretIDs, dropping blank lines and duplicates.
func (c *Config) References() []reference.Reference {
	return reference.ParseAll(c.SecretIDs)
}

// Mode returns the parsed overwrite mode.
func (c *Config) Mode() (envname.Mode, error) {
	return envname.ParseMode(c.OverwriteMode)
}

// MaskPolicy returns the masking policy described by the public-* options.
func (c *Config) MaskPolicy() inject.MaskPolicy {
	return inject.NewMaskPolicy(c.PublicEnvVars, c.PublicValues, c.PublicNumerics)
}

// InjectOptions returns the injection policy. Call Validate first.
func (c *Config) InjectOptions() (inject.Options, error) {
	mode, err := c.Mode()
	if err != nil {
		return inject.Options{}, err
	}
	return inject.Options{
		Mode:      mode,
		ParseJSON: c.ParseJSON,
		Masking:   c.MaskPolicy(),
	}, nil
}
