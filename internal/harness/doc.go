// Package harness runs conformance scenarios against the sound library.
//
// A scenario loads a table and accent files, executes a flow of lookups
// and checks assertions over the accents' phoneme inventories. Every step
// is recorded in a trace that is compared against a golden file.
//
// # Scenario Format
//
//	name: genam_stops
//	description: "Aspiration is allophonic in General American"
//	table: mini.cue            # optional, default: embedded table
//	accents: [plain.yaml]      # optional
//	flow:
//	  - op: resolve
//	    symbol: "tʰ"
//	    expect:
//	      symbol: "t[aspirated]"
//	      features: { aspirated: "+" }
//	  - op: reduce
//	    accent: genam
//	    symbol: "tʰ"
//	    expect: { phoneme: t }
//	  - op: resolve
//	    symbol: "p[voiced]"
//	    expect: { error: SYMBOL_COLLISION }
//	assertions:
//	  - type: same_phoneme
//	    accent: genam
//	    symbols: ["t", "tʰ"]
//
// Ops are resolve, parse, canonical, reduce and inventory. Assertion types
// are same_phoneme, distinct_phonemes, inventory_size, skipped and
// stored_phoneme.
//
// # Deterministic Testing
//
// Inventories are built with the fixed build id BuildID and written to an
// in-memory store, so traces and stored records are identical across runs.
package harness
