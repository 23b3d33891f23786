// Package langid wraps probabilistic language detection with a defined
// fallback for inconclusive input. Detection failures never propagate
// as errors; callers always receive a usable ISO-639-1 code.
package langid

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Languages the assistant can plausibly be asked in. Arabic and English
// are the primary pair; the rest cover common Latin-script questions so
// short English-like text is not misclassified.
var supported = []lingua.Language{
	lingua.Arabic,
	lingua.English,
	lingua.French,
	lingua.Spanish,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Turkish,
}

// Detector identifies the language of a text string.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a Detector over the supported language set.
// Construction is relatively expensive; build once and share.
func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(supported...).
			Build(),
	}
}

// DetectOrDefault returns the ISO-639-1 code of the most likely language,
// or fallback when the text is empty or detection is inconclusive.
func (d *Detector) DetectOrDefault(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return fallback
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}
