// Package secrets resolves credentials such as the database URL that may be
// given inline or mounted as a file.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissing is returned when a secret resolves to nothing.
var ErrMissing = errors.New("secret is not configured")

// Source describes where a secret lives. File wins over Value.
type Source struct {
	Name  string
	Value string
	File  string
}

func (s Source) label() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// Load returns the trimmed secret.
func Load(src Source) (string, error) {
	if file := strings.TrimSpace(src.File); file != "" {
		return fromFile(src.label(), file)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s: %w", src.label(), ErrMissing)
	}
	return secret, nil
}

func fromFile(name, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s from %q: %w", name, path, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty: %w", name, path, ErrMissing)
	}
	return secret, nil
}
