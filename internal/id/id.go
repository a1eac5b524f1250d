// Package id generates URL-safe identifiers and capability secrets.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Lowercase alphanumerics keep slugs readable in URLs.
	slugAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	slugSuffixSize = 6

	// Capability secrets use the full default alphabet at full length.
	secretSize = 21
)

// NewSecret creates a capability secret (event admin key or person guest
// token): 21 characters of the default URL-safe NanoID alphabet.
func NewSecret() (string, error) {
	s, err := gonanoid.New(secretSize)
	if err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return s, nil
}

// NewSlug derives a unique URL-safe slug from a display name by slugifying it
// and appending a short random suffix, e.g. "reveillon-2026-k3x9qa".
func NewSlug(name string) (string, error) {
	suffix, err := gonanoid.Generate(slugAlphabet, slugSuffixSize)
	if err != nil {
		return "", fmt.Errorf("generate slug suffix: %w", err)
	}
	base := Slugify(name)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Slugify lowercases the input and collapses runs of non-alphanumeric
// characters into single hyphens. Non-ASCII letters are dropped.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
