package pipeline

// User-facing recognition fallback messages. These exact strings are
// part of the external contract: they are returned as the resolved user
// text and flow into the oracle like any other input.
const (
	// MsgUnintelligible is returned when the engine heard audio but
	// could not make out any speech.
	MsgUnintelligible = "الصوت غير واضح، حاول مرة أخرى."

	// MsgAudioFailure is returned when recognition failed for
	// infrastructure reasons in both locales.
	MsgAudioFailure = "حدث خطأ أثناء معالجة الصوت."
)
