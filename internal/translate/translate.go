// Package translate provides the translation capability the classifier calls.
// Providers are best-effort: callers bound them with a timeout and carry on
// without a translation when they fail.
package translate

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnavailable     = errors.New("translate: provider unavailable")
	ErrUnsupportedPair = errors.New("translate: unsupported language pair")
	ErrEmptyText       = errors.New("translate: text is empty")
)

// Language tags understood by the providers.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangAuto    = "auto"
)

// Translator translates text between two language tags.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Func adapts a function to the Translator interface.
type Func func(ctx context.Context, text, source, target string) (string, error)

func (f Func) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// Unavailable is the provider used when translation is switched off.
type Unavailable struct{}

func (Unavailable) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}

// NormalizeLang lower-cases a language tag and strips any region subtag ("hi-IN" -> "hi").
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
