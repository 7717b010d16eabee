package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sound"
)

// SymbolResult describes one resolved symbol.
type SymbolResult struct {
	Input    string            `json:"input"`
	Symbol   string            `json:"symbol"`
	IPA      string            `json:"ipa"`
	Category string            `json:"category"`
	Features map[string]string `json:"features"`
	Marks    []string          `json:"marks"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <symbol>...",
		Short: "Resolve symbols to feature bundles",
		Long: `Resolve each symbol to its feature bundle. Symbols are given as IPA
("tʰ") or in key form ("t[aspirated]").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, cmd, args)
		},
	}
}

func runResolve(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	results := make([]SymbolResult, 0, len(args))
	for _, arg := range args {
		s, err := parseSymbolArg(lib, arg)
		if err != nil {
			return f.Fail(err)
		}
		b, err := lib.Resolve(s)
		if err != nil {
			return f.Fail(err)
		}
		ipa, err := lib.Render(s)
		if err != nil {
			return f.Fail(err)
		}
		results = append(results, SymbolResult{
			Input:    arg,
			Symbol:   s.String(),
			IPA:      ipa,
			Category: string(b.Category()),
			Features: b.Map(),
			Marks:    b.Marks(),
		})
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.IPA, r.Symbol, r.Category, strings.Join(r.Marks, " "))
	}
	tw.Flush()
	return f.Success(results, sb.String())
}

// ParseResult describes one parsed symbol.
type ParseResult struct {
	Input     string   `json:"input"`
	Symbol    string   `json:"symbol"`
	Base      string   `json:"base"`
	Modifiers []string `json:"modifiers"`
	Canonical string   `json:"canonical"` // IPA with diacritics in canonical order
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <ipa>...",
		Short: "Split IPA symbols into base glyph and modifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, cmd, args)
		},
	}
}

func runParse(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	results := make([]ParseResult, 0, len(args))
	var sb strings.Builder
	for _, arg := range args {
		s, err := lib.Parse(arg)
		if err != nil {
			return f.Fail(err)
		}
		canonical, err := lib.Render(s)
		if err != nil {
			return f.Fail(err)
		}
		mods := s.Modifiers()
		if mods == nil {
			mods = []string{}
		}
		results = append(results, ParseResult{
			Input:     arg,
			Symbol:    s.String(),
			Base:      s.Base(),
			Modifiers: mods,
			Canonical: canonical,
		})
		fmt.Fprintf(&sb, "%s -> %s (%s)\n", arg, s, canonical)
	}
	return f.Success(results, sb.String())
}

// NewCanonicalCommand creates the canonical command.
func NewCanonicalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <consonant|vowel> <feature=value>...",
		Short: "Find the symbol of a feature bundle",
		Long: `Build a bundle from feature assignments and print its canonical symbol.
Features not assigned take their defaults.`,
		Example: `  sound canonical consonant syllabic=- consonantal=+ sonorant=- continuant=- \
    delayed_release=- place=velar manner=stop voice=- aspirated=+`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanonical(rootOpts, cmd, args)
		},
	}
}

func runCanonical(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	category := sound.Category(args[0])
	if category != sound.Consonant && category != sound.Vowel {
		return f.Fail(usageErrorf("category must be consonant or vowel, got %q", args[0]))
	}
	values := make(map[string]string, len(args)-1)
	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return f.Fail(usageErrorf("expected feature=value, got %q", arg))
		}
		values[name] = value
	}

	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}
	b, err := lib.Bundle(category, values)
	if err != nil {
		return f.Fail(err)
	}
	s, err := lib.CanonicalSymbolFor(b)
	if err != nil {
		return f.Fail(err)
	}
	ipa, err := lib.Render(s)
	if err != nil {
		return f.Fail(err)
	}

	result := SymbolResult{
		Symbol:   s.String(),
		IPA:      ipa,
		Category: string(category),
		Features: b.Map(),
		Marks:    b.Marks(),
	}
	return f.Success(result, fmt.Sprintf("%s\t%s\n", ipa, s))
}
