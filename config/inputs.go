package config

import (
	"strings"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// Action input names.
const (
	InputSecretIDs      = "secret-ids"
	InputOverwriteMode  = "overwrite-mode"
	InputParseJSON      = "parse-json-secrets"
	InputPublicEnvVars  = "public-env-vars"
	InputPublicNumerics = "public-numerics"
	InputPublicValues   = "public-values"
	InputOutputFile     = "output-file"
)

// InputReader reads a workflow step input. *githubactions.Action implements it.
type InputReader interface {
	GetInput(name string) string
}

// FromInputs builds a configuration from Action inputs. Inputs left empty
// keep their default.
func FromInputs(in InputReader) (*Config, error) {
	cfg := Default()

	cfg.SecretIDs = SplitLines(in.GetInput(InputSecretIDs))
	cfg.PublicEnvVars = SplitLines(in.GetInput(InputPublicEnvVars))
	cfg.PublicValues = SplitLines(in.GetInput(InputPublicValues))
	cfg.OutputFile = strings.TrimSpace(in.GetInput(InputOutputFile))
	if mode := strings.TrimSpace(in.GetInput(InputOverwriteMode)); mode != "" {
		cfg.OverwriteMode = mode
	}

	var err error
	if cfg.ParseJSON, err = ParseBool(InputParseJSON, in.GetInput(InputParseJSON)); err != nil {
		return nil, err
	}
	if cfg.PublicNumerics, err = ParseBool(InputPublicNumerics, in.GetInput(InputPublicNumerics)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SplitLines splits a multiline value into trimmed, non-empty lines with
// duplicates removed. Order of first appearance is kept.
func SplitLines(s string) []string {
	return cleanLines(strings.Split(s, "\n"))
}

func cleanLines(lines []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// ParseBool parses a boolean input the way the YAML 1.2 core schema does.
// The empty string is false.
func ParseBool(name, s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "", "false", "False", "FALSE":
		return false, nil
	case "true", "True", "TRUE":
		return true, nil
	default:
		return false, errs.Newf(errs.CodeInvalidConfig,
			"Input does not meet YAML 1.2 \"Core Schema\" specification: %s. Support boolean input list: `true | True | TRUE | false | False | FALSE`",
			name)
	}
}
