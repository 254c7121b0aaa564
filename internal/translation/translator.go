package translation

import (
	"context"
	"errors"
	"fmt"
)

// AutoDetect asks the provider to detect the source language.
const AutoDetect = "auto"

// ErrNotFound means the provider produced no translation for the pair.
var ErrNotFound = errors.New("no translation found")

// Translator abstracts a text translation provider.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// APIError is returned when a provider answers with a non-2xx status.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status=%d: %s", e.Provider, e.Status, e.Message)
}

func languageName(code string) string {
	if code == "" || code == AutoDetect {
		return "the detected source language"
	}
	return fmt.Sprintf("the language with ISO 639-1 code %q", code)
}

func instruction(source, target string) string {
	return fmt.Sprintf(
		"You are a translation engine. Translate the user's text from %s to %s. "+
			"Reply with the translation only, without quotes or commentary. "+
			"If the text cannot be translated, reply with an empty message.",
		languageName(source), languageName(target),
	)
}
