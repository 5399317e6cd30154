package config

import (
	"os"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 📛 npm enforces a 214 character limit on package names
const maxNameLength = 214

// 🔑 TokenEnvVar is the environment variable holding the registry auth token
const TokenEnvVar = "NPM_TOKEN"

// 🎯 Request describes a single reservation attempt
type Request struct {
	// Name is the package name to reserve on the registry
	Name string
	// Username is recorded as the package author; it is never used to form
	// a scoped package identifier
	Username string
}

// ✅ Validate checks the request against the registry's naming rules
func (r Request) Validate() error {
	if r.Name == "" {
		return errors.Errorf("package name is required")
	}
	if len(r.Name) > maxNameLength {
		return errors.Errorf("package name exceeds %d characters", maxNameLength)
	}
	if strings.IndexFunc(r.Name, unicode.IsSpace) >= 0 {
		return errors.Errorf("package name %q contains whitespace", r.Name)
	}
	if strings.HasPrefix(r.Name, ".") || strings.HasPrefix(r.Name, "_") {
		return errors.Errorf("package name %q may not start with %q", r.Name, r.Name[:1])
	}
	if strings.TrimSpace(r.Username) == "" {
		return errors.Errorf("username is required")
	}
	return nil
}

// 🔑 TokenFromEnv reads the registry auth token, once, at run start.
// The token is injected into the publisher and never re-read or mutated.
func TokenFromEnv() (string, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnvVar))
	if token == "" {
		return "", errors.Errorf("%s is not set; a registry auth token is required", TokenEnvVar)
	}
	return token, nil
}
