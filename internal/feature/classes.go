package feature

// Natural classes.
//
// These predicates test membership of a bundle in common natural classes
// without the caller needing to know which features define the class. They
// are written against the standard feature names of the shipped table; for
// tables that omit a feature the predicates depending on it report false.
//
// Prefer these to ad hoc feature tests when the question is "is this an X".

// Standard feature names used by the natural class predicates.
const (
	FSyllabic       = "syllabic"
	FConsonantal    = "consonantal"
	FSonorant       = "sonorant"
	FContinuant     = "continuant"
	FDelayedRelease = "delayed_release"
	FLateral        = "lateral"
	FManner         = "manner"
	FVoice          = "voice"
	FNasalized      = "nasalized"
	FHeight         = "height"
)

// IsVowel reports whether b fills a syllable nucleus (+syllabic).
func IsVowel(b Bundle) bool {
	return b.Value(FSyllabic) == Plus
}

// IsConsonant is the complement of IsVowel. It includes semivowels even
// though they are -consonantal.
func IsConsonant(b Bundle) bool {
	return !b.IsZero() && !IsVowel(b)
}

// IsSemivowel reports (-consonantal, -syllabic).
func IsSemivowel(b Bundle) bool {
	return b.Value(FSyllabic) == Minus && b.Value(FConsonantal) == Minus
}

// IsVoiced reports +voice.
func IsVoiced(b Bundle) bool {
	return b.Value(FVoice) == Plus
}

// IsStop reports (-sonorant, -continuant, -delayed release).
func IsStop(b Bundle) bool {
	return b.Value(FSonorant) == Minus &&
		b.Value(FContinuant) == Minus &&
		b.Value(FDelayedRelease) != Plus
}

// IsAffricate reports (-sonorant, -continuant, +delayed release).
func IsAffricate(b Bundle) bool {
	return b.Value(FSonorant) == Minus &&
		b.Value(FContinuant) == Minus &&
		b.Value(FDelayedRelease) == Plus
}

// IsFricative reports (-sonorant, +continuant).
func IsFricative(b Bundle) bool {
	return b.Value(FSonorant) == Minus && b.Value(FContinuant) == Plus
}

// IsApproximant reports (+sonorant, -syllabic, +continuant).
func IsApproximant(b Bundle) bool {
	return b.Value(FSonorant) == Plus &&
		b.Value(FSyllabic) == Minus &&
		b.Value(FContinuant) == Plus
}

// IsNasal reports nasal consonants and nasalized vowels.
func IsNasal(b Bundle) bool {
	return b.Value(FManner) == "nasal" || b.Value(FNasalized) == Plus
}

// IsLateral reports +lateral.
func IsLateral(b Bundle) bool {
	return b.Value(FLateral) == Plus
}

// IsHighVowel reports vowels of close or near-close height.
func IsHighVowel(b Bundle) bool {
	h := b.Value(FHeight)
	return IsVowel(b) && (h == "close" || h == "near_close")
}

// IsMidVowel reports vowels between close and open.
func IsMidVowel(b Bundle) bool {
	h := b.Value(FHeight)
	return IsVowel(b) && (h == "close_mid" || h == "mid" || h == "open_mid")
}

// IsLowVowel reports vowels of open or near-open height.
func IsLowVowel(b Bundle) bool {
	h := b.Value(FHeight)
	return IsVowel(b) && (h == "open" || h == "near_open")
}
