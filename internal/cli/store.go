package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/store"
)

// ExportResult reports an exported inventory.
type ExportResult struct {
	Record   ir.InventoryRecord `json:"record"`
	Path     string             `json:"path,omitempty"`
	Stored   bool               `json:"stored,omitempty"`
	Inserted bool               `json:"inserted,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <accent>",
		Short: "Export an accent's inventory as JSON",
		Long: `Build the accent's inventory and write it as a JSON record. The record's
fingerprint hashes its content, so two builds of the same inventory export
the same fingerprint. With --store the record is also written to the store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, cmd, args[0], outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the record to a file instead of stdout")
	return cmd
}

func runExport(opts *RootOptions, cmd *cobra.Command, accent, outPath string) error {
	f := opts.formatter(cmd)
	lib, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}
	inv, err := lib.Inventory(cmd.Context(), accent)
	if err != nil {
		return f.Fail(err)
	}

	result := ExportResult{Record: inv.Record(), Path: outPath}
	data, err := json.MarshalIndent(result.Record, "", "  ")
	if err != nil {
		return f.Fail(fmt.Errorf("marshal record: %w", err))
	}
	data = append(data, '\n')

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return f.Fail(fmt.Errorf("write record: %w", err))
		}
		f.VerboseLog("Wrote %s", outPath)
	}

	if opts.cfg.Store != "" {
		inserted, err := storeInventory(cmd.Context(), opts.cfg.Store, result.Record)
		if err != nil {
			return f.FailWith(ErrCodeStore, ExitCommandError, err)
		}
		result.Stored = true
		result.Inserted = inserted
	}

	if outPath == "" {
		// Keep stdout a single JSON document.
		if result.Stored {
			f.VerboseLog("stored %s (inserted=%t)", result.Record.Fingerprint, result.Inserted)
		}
		return f.Success(result, string(data))
	}

	text := fmt.Sprintf("Wrote %s (%s)\n", outPath, result.Record.Fingerprint)
	switch {
	case result.Inserted:
		text += fmt.Sprintf("Stored %s\n", result.Record.Fingerprint)
	case result.Stored:
		text += fmt.Sprintf("Already stored %s\n", result.Record.Fingerprint)
	}
	return f.Success(result, text)
}

// NewStoredCommand creates the stored command.
func NewStoredCommand(rootOpts *RootOptions) *cobra.Command {
	var accent, symbolKey string

	cmd := &cobra.Command{
		Use:   "stored [fingerprint]",
		Short: "Query the inventory store",
		Long: `List stored inventories, or show one by fingerprint.

With --accent the latest stored inventory of that accent built from the
current table is shown. With --symbol only the phoneme realized by that
symbol key (e.g. "t[aspirated]") is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fingerprint string
			if len(args) == 1 {
				fingerprint = args[0]
			}
			return runStored(rootOpts, cmd, fingerprint, accent, symbolKey)
		},
	}
	cmd.Flags().StringVar(&accent, "accent", "", "show the latest inventory of this accent")
	cmd.Flags().StringVar(&symbolKey, "symbol", "", "show only the phoneme realized by this symbol key")
	return cmd
}

func runStored(opts *RootOptions, cmd *cobra.Command, fingerprint, accent, symbolKey string) error {
	f := opts.formatter(cmd)
	if opts.cfg.Store == "" {
		return f.Fail(usageErrorf("no store configured: set --store or SOUND_STORE"))
	}
	if fingerprint != "" && accent != "" {
		return f.Fail(usageErrorf("give a fingerprint or --accent, not both"))
	}

	st, err := store.Open(opts.cfg.Store)
	if err != nil {
		return f.FailWith(ErrCodeStore, ExitCommandError, err)
	}
	defer st.Close()
	ctx := cmd.Context()

	if accent != "" {
		lib, err := opts.open(cmd.ErrOrStderr())
		if err != nil {
			return f.Fail(err)
		}
		latest, err := st.LatestInventory(ctx, accent, lib.Fingerprint())
		if err != nil {
			return storeLookupFailed(f, fmt.Sprintf("accent %s", accent), err)
		}
		fingerprint = latest.Fingerprint
	}

	if fingerprint == "" {
		if symbolKey != "" {
			return f.Fail(usageErrorf("--symbol needs a fingerprint or --accent"))
		}
		list, err := st.ListInventories(ctx)
		if err != nil {
			return f.FailWith(ErrCodeStore, ExitCommandError, err)
		}
		var sb strings.Builder
		tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		for _, sum := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d phonemes\t%s\n",
				sum.Seq, sum.Accent, sum.Fingerprint, sum.Phonemes, sum.BuildID)
		}
		tw.Flush()
		return f.Success(list, sb.String())
	}

	if symbolKey != "" {
		p, err := st.PhonemeForSymbol(ctx, fingerprint, symbolKey)
		if err != nil {
			return storeLookupFailed(f, fmt.Sprintf("symbol %s in %s", symbolKey, fingerprint), err)
		}
		return f.Success(p, fmt.Sprintf("%s\t/%s/\n", symbolKey, p.ID))
	}

	rec, err := st.ReadInventory(ctx, fingerprint)
	if err != nil {
		return storeLookupFailed(f, fmt.Sprintf("inventory %s", fingerprint), err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (build %s)\n", rec.Accent, rec.Fingerprint, rec.BuildID)
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, p := range rec.Phonemes {
		ipas := make([]string, 0, len(p.Symbols))
		for _, s := range p.Symbols {
			ipas = append(ipas, s.IPA)
		}
		fmt.Fprintf(tw, "/%s/\t%s\n", p.ID, strings.Join(ipas, " "))
	}
	tw.Flush()
	return f.Success(rec, sb.String())
}

func storeLookupFailed(f *OutputFormatter, what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return f.FailWith(ErrCodeNotFound, ExitFailure, fmt.Errorf("%s: not stored", what))
	}
	return f.FailWith(ErrCodeStore, ExitCommandError, err)
}

// storeInventory writes rec to the store at path.
func storeInventory(ctx context.Context, path string, rec ir.InventoryRecord) (bool, error) {
	st, err := store.Open(path)
	if err != nil {
		return false, err
	}
	defer st.Close()
	return st.WriteInventory(ctx, rec)
}
