package config

import (
	"fmt"
	"strings"

	"github.com/useparagon/aws-secretsmanager-get-secrets/envname"
	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// Validate checks the configuration and returns a CodeInvalidConfig error
// listing every problem found.
//
// It rejects an unknown overwrite mode, an empty secret list, aliases that
// are not valid environment names and wildcards without a prefix.
func (c *Config) Validate() error {
	var problems []string

	if _, err := c.Mode(); err != nil {
		problems = append(problems, err.Error())
	}

	refs := c.References()
	if len(refs) == 0 {
		problems = append(problems, fmt.Sprintf("At least one secret ID is required in '%s'.", InputSecretIDs))
	}

	for _, ref := range refs {
		if ref.HasAlias {
			if err := envname.ValidateAlias(ref.Alias); err != nil {
				problems = append(problems, err.Error())
			}
		}
		if ref.Locator.IsWildcard && ref.Locator.Prefix() == "" {
			problems = append(problems,
				fmt.Sprintf("The secret ID '%s' has no prefix. Please specify a prefix before the wildcard.", ref.Locator.Raw))
		}
	}

	if len(problems) > 0 {
		return errs.New(errs.CodeInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
