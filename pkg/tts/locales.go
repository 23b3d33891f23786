package tts

// Locales maps ISO-639-1 language codes to engine locale codes.
// An Arabic-capable voice is registered here; languages without an
// entry fall back to the engine default.
var Locales = map[string]string{
	"ar": "ar",
	"en": "en",
	"fr": "fr",
	"es": "es",
	"de": "de",
	"it": "it",
	"pt": "pt",
	"tr": "tr",
}

// DefaultLocale is used when a language has no registered voice.
const DefaultLocale = "en"

// ResolveLocale returns the engine locale for a language code, or the
// given default when no voice is registered for it.
func ResolveLocale(language, fallback string) string {
	if locale, ok := Locales[language]; ok {
		return locale
	}
	return fallback
}

// HasVoice returns true if a voice is registered for the language.
func HasVoice(language string) bool {
	_, ok := Locales[language]
	return ok
}
