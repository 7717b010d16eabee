package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sound"
	"github.com/roach88/sound/internal/compiler"
)

// AccentInfo describes a registered accent.
type AccentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// NewAccentsCommand creates the accents command.
func NewAccentsCommand(rootOpts *RootOptions) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "accents",
		Short: "List registered accents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccents(rootOpts, cmd, asYAML)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the table's accent declarations as an accent file")
	return cmd
}

func runAccents(opts *RootOptions, cmd *cobra.Command, asYAML bool) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	if asYAML {
		data, err := compiler.MarshalAccents(lib.Table().Accents)
		if err != nil {
			return f.Fail(err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	infos := make([]AccentInfo, 0, len(lib.Accents()))
	for _, name := range lib.Accents() {
		a, _ := lib.Accent(name)
		state, err := lib.Status(name)
		if err != nil {
			return f.Fail(err)
		}
		infos = append(infos, AccentInfo{
			Name:        name,
			Description: a.Description(),
			Status:      state.String(),
		})
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
	}
	tw.Flush()
	return f.Success(infos, sb.String())
}

// PhonemeInfo describes one phoneme of an inventory.
type PhonemeInfo struct {
	ID       string            `json:"id"`
	Index    int               `json:"index"`
	Features map[string]string `json:"features"`
	Symbols  []string          `json:"symbols"`
}

// InventoryInfo describes a built inventory.
type InventoryInfo struct {
	Accent           string        `json:"accent"`
	Fingerprint      string        `json:"fingerprint"`
	TableFingerprint string        `json:"table_fingerprint"`
	BuildID          string        `json:"build_id"`
	Phonemes         []PhonemeInfo `json:"phonemes"`
	Skipped          []string      `json:"skipped"`
	Stored           *bool         `json:"stored,omitempty"`
}

// NewInventoryCommand creates the inventory command.
func NewInventoryCommand(rootOpts *RootOptions) *cobra.Command {
	var showSkipped bool

	cmd := &cobra.Command{
		Use:   "inventory <accent>",
		Short: "Build and list an accent's phoneme inventory",
		Long: `Build the accent's phoneme inventory and list each phoneme with the
symbols realizing it. With --store the built inventory is also recorded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(rootOpts, cmd, args[0], showSkipped)
		},
	}
	cmd.Flags().BoolVar(&showSkipped, "skipped", false, "also list symbols the accent cannot realize")
	return cmd
}

func runInventory(opts *RootOptions, cmd *cobra.Command, accent string, showSkipped bool) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	inv, err := lib.Inventory(cmd.Context(), accent)
	if err != nil {
		return f.Fail(err)
	}
	info := describeInventory(lib, inv)

	if opts.cfg.Store != "" {
		inserted, err := storeInventory(cmd.Context(), opts.cfg.Store, inv.Record())
		if err != nil {
			return f.FailWith(ErrCodeStore, ExitCommandError, err)
		}
		f.VerboseLog("stored %s (inserted=%t)", inv.Fingerprint(), inserted)
		info.Stored = &inserted
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, p := range info.Phonemes {
		fmt.Fprintf(tw, "/%s/\t%s\n", p.ID, strings.Join(p.Symbols, " "))
	}
	tw.Flush()
	fmt.Fprintf(&sb, "%d phonemes, %d symbols skipped\n", len(info.Phonemes), len(info.Skipped))
	if showSkipped && len(info.Skipped) > 0 {
		fmt.Fprintf(&sb, "skipped: %s\n", strings.Join(info.Skipped, " "))
	}
	return f.Success(info, sb.String())
}

func describeInventory(lib *sound.Library, inv *sound.Inventory) InventoryInfo {
	info := InventoryInfo{
		Accent:           inv.Accent(),
		Fingerprint:      inv.Fingerprint(),
		TableFingerprint: inv.TableFingerprint(),
		BuildID:          inv.BuildID(),
		Phonemes:         make([]PhonemeInfo, 0, inv.Len()),
		Skipped:          []string{},
	}
	for _, p := range inv.Phonemes() {
		pi := PhonemeInfo{
			ID:       p.ID(),
			Index:    p.Index(),
			Features: p.Bundle().Map(),
		}
		for _, r := range p.Realizations() {
			pi.Symbols = append(pi.Symbols, r.IPA)
		}
		info.Phonemes = append(info.Phonemes, pi)
	}
	for _, s := range inv.Skipped() {
		ipa, err := lib.Render(s)
		if err != nil {
			ipa = s.String()
		}
		info.Skipped = append(info.Skipped, ipa)
	}
	return info
}

// ReduceResult is the phoneme a symbol reduces to.
type ReduceResult struct {
	Input   string `json:"input"`
	Symbol  string `json:"symbol"`
	Phoneme string `json:"phoneme"`
	Index   int    `json:"index"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reduce <accent> <symbol>...",
		Short: "Map symbols to an accent's phonemes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(rootOpts, cmd, args[0], args[1:])
		},
	}
}

func runReduce(opts *RootOptions, cmd *cobra.Command, accent string, args []string) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	ctx := cmd.Context()
	results := make([]ReduceResult, 0, len(args))
	var sb strings.Builder
	for _, arg := range args {
		s, err := parseSymbolArg(lib, arg)
		if err != nil {
			return f.Fail(err)
		}
		p, err := lib.PhonemeFor(ctx, accent, s)
		if err != nil {
			return f.Fail(err)
		}
		results = append(results, ReduceResult{
			Input:   arg,
			Symbol:  s.String(),
			Phoneme: p.ID(),
			Index:   p.Index(),
		})
		fmt.Fprintf(&sb, "%s\t%s\n", arg, p)
	}
	return f.Success(results, sb.String())
}
