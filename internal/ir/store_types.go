package ir

// NOTE: These are store-facing records, not part of the table declarations.
// They are what a built inventory looks like once it leaves the process.

// InventoryRecord is the exported form of a built phoneme inventory.
type InventoryRecord struct {
	Fingerprint      string          `json:"fingerprint"`       // content hash, stable across builds
	Accent           string          `json:"accent"`
	TableFingerprint string          `json:"table_fingerprint"` // registry the inventory was built from
	BuildID          string          `json:"build_id"`          // UUIDv7, differs per build
	Skipped          int64           `json:"skipped"`           // tolerated symbols
	Phonemes         []PhonemeRecord `json:"phonemes"`
}

// PhonemeRecord is one phoneme of an exported inventory.
type PhonemeRecord struct {
	Index   int64             `json:"index"`
	ID      string            `json:"id"`
	Bundle  map[string]string `json:"bundle"`
	Symbols []SymbolRecord    `json:"symbols"`
}

// SymbolRecord is one realizing symbol of a phoneme.
type SymbolRecord struct {
	Key string `json:"key"` // Symbol.String(), e.g. "p[aspirated]"
	IPA string `json:"ipa"` // rendered form, e.g. "pʰ"
}
