package config_test

import (
	"strings"
	"testing"

	"github.com/pkgclaim/pkgclaim/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestRequestValidate tests the registry naming rules
func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name          string
		request       config.Request
		expectedError string
	}{
		{
			name:    "valid_name",
			request: config.Request{Name: "valid-name", Username: "alice"},
		},
		{
			name:    "max_length_name",
			request: config.Request{Name: strings.Repeat("a", 214), Username: "alice"},
		},
		{
			name:          "empty_name",
			request:       config.Request{Name: "", Username: "alice"},
			expectedError: "package name is required",
		},
		{
			name:          "name_with_space",
			request:       config.Request{Name: "my package", Username: "alice"},
			expectedError: "contains whitespace",
		},
		{
			name:          "name_with_tab",
			request:       config.Request{Name: "my\tpackage", Username: "alice"},
			expectedError: "contains whitespace",
		},
		{
			name:          "name_too_long",
			request:       config.Request{Name: strings.Repeat("a", 215), Username: "alice"},
			expectedError: "exceeds 214 characters",
		},
		{
			name:          "name_starting_with_dot",
			request:       config.Request{Name: ".hidden", Username: "alice"},
			expectedError: "may not start with",
		},
		{
			name:          "name_starting_with_underscore",
			request:       config.Request{Name: "_private", Username: "alice"},
			expectedError: "may not start with",
		},
		{
			name:          "empty_username",
			request:       config.Request{Name: "valid-name", Username: ""},
			expectedError: "username is required",
		},
		{
			name:          "whitespace_only_username",
			request:       config.Request{Name: "valid-name", Username: "   "},
			expectedError: "username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectedError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

// 🧪 TestTokenFromEnv tests token sourcing
func TestTokenFromEnv(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		t.Setenv(config.TokenEnvVar, "npm_secret")
		token, err := config.TokenFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "npm_secret", token)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(config.TokenEnvVar, "")
		_, err := config.TokenFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.TokenEnvVar)
	})

	t.Run("whitespace_only", func(t *testing.T) {
		t.Setenv(config.TokenEnvVar, "  \n")
		_, err := config.TokenFromEnv()
		require.Error(t, err)
	})
}
