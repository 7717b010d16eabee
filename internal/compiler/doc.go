// Package compiler turns table sources into ir declarations.
//
// The authoritative table is written in CUE and embedded (ipa.cue). Its
// #Table definition is the schema every table source is unified with, so an
// on-disk override is checked for shape by CUE before Validate checks the
// semantic rules CUE cannot express (domains, applicability, uniqueness).
//
// Extra accents may be supplied as YAML files; see ParseAccents.
package compiler
