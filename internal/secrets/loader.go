// Package secrets resolves secret values from configuration or files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value. When File is set it takes
// precedence over Value. Name is used in error messages.
type Source struct {
	Name  string
	Value string
	File  string
}

// Load returns the resolved, trimmed secret value from the provided source.
// An error is returned when neither File nor Value contain a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
