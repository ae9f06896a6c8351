// Package translator defines the machine-translation collaborator.
package translator

import (
	"context"
	"errors"
)

// ErrNoCredential is returned by constructors when no API credential is set.
var ErrNoCredential = errors.New("translator: no API credential configured")

type Translator interface {
	Name() string
	// Translate returns one translation per input text, in input order.
	Translate(ctx context.Context, texts []string, target string) ([]string, error)
	// Detect returns the ISO language code of text.
	Detect(ctx context.Context, text string) (string, error)
}
