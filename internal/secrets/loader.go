// Package secrets resolves API credentials from config values or key files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source names a secret and the places it may come from. File wins over
// Value when both are set.
type Source struct {
	Name  string
	Value string
	File  string
}

// Load resolves the secret described by src, trimming surrounding
// whitespace. It fails when no usable value can be found.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret != "" {
		return secret, nil
	}

	if file != "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}
	return "", fmt.Errorf("%s is not configured", name)
}
