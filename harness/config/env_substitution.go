package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envRefRegex matches ${VAR}, ${VAR:-default} and ${VAR:?message}
// references, and the $${VAR} escape form.
var envRefRegex = regexp.MustCompile(`\$?\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*)|:\?([^}]*))?\}`)

// SubstituteEnvVars replaces environment variable references in YAML
// content. Supported forms:
//
//   - ${VAR}           basic substitution (empty when unset)
//   - ${VAR:-default}  use default when VAR is empty or unset
//   - ${VAR:?message}  error when VAR is empty or unset
//   - $${VAR}          escape, yields the literal ${VAR}
func SubstituteEnvVars(content string) (string, error) {
	var substErr error

	result := envRefRegex.ReplaceAllStringFunc(content, func(ref string) string {
		if strings.HasPrefix(ref, "$$") {
			return ref[1:]
		}

		m := envRefRegex.FindStringSubmatch(ref)
		name := m[1]
		value := os.Getenv(name)
		if value != "" {
			return value
		}

		switch {
		case strings.HasPrefix(m[2], ":-"):
			return m[3]
		case strings.HasPrefix(m[2], ":?"):
			msg := m[4]
			if msg == "" {
				msg = "required variable is not set"
			}
			if substErr == nil {
				substErr = fmt.Errorf("environment variable %s: %s", name, msg)
			}
		}
		return value
	})

	if substErr != nil {
		return "", substErr
	}
	return result, nil
}
