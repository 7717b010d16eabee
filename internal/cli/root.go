package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sound"
	"github.com/roach88/sound/internal/config"
	"github.com/roach88/sound/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	Table        string
	Accents      []string
	MaxModifiers int
	Store        string

	cfg config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sound CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "sound",
		Version: ir.LibraryVersion,
		Short:   "Inspect IPA symbols, feature bundles and accent phonemes",
		Long:    `sound resolves IPA symbols to distinctive-feature bundles and reduces
them to the phonemes of an accent.

Settings are read from SOUND_TABLE, SOUND_MAX_MODIFIERS, SOUND_ACCENTS,
SOUND_STORE, SOUND_LOG_LEVEL and SOUND_LOG_FORMAT; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = opts.merge(cfg)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "table source: .cue file or CUE package directory (default: embedded table)")
	cmd.PersistentFlags().StringSliceVar(&opts.Accents, "accents", nil, "YAML accent files to load")
	cmd.PersistentFlags().IntVar(&opts.MaxModifiers, "max-modifiers", 0, "bound on modifiers per enumerated symbol (default: unbounded)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "SQLite inventory store path")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewCanonicalCommand(opts))
	cmd.AddCommand(NewAccentsCommand(opts))
	cmd.AddCommand(NewInventoryCommand(opts))
	cmd.AddCommand(NewReduceCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStoredCommand(opts))

	return cmd
}

// merge overlays flags on the environment configuration.
func (o *RootOptions) merge(cfg config.Config) config.Config {
	if o.Table != "" {
		cfg.Table = o.Table
	}
	if o.MaxModifiers > 0 {
		cfg.MaxModifiers = o.MaxModifiers
	}
	if o.Store != "" {
		cfg.Store = o.Store
	}
	cfg.Accents = append(slices.Clone(cfg.Accents), o.Accents...)
	if o.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// open loads the library the configuration describes. Diagnostics are
// logged to logw.
func (o *RootOptions) open(logw io.Writer) (*sound.Library, error) {
	libOpts := []sound.Option{
		sound.WithLogger(o.cfg.Logger(logw)),
		sound.WithMaxModifiers(o.cfg.MaxModifiers),
		sound.WithAccentFiles(o.cfg.Accents...),
	}
	if o.cfg.Table != "" {
		libOpts = append(libOpts, sound.WithTableFile(o.cfg.Table))
	}
	return sound.Open(libOpts...)
}

// parseSymbolArg reads a symbol given either as IPA ("tʰ") or in key form
// ("t[aspirated]").
func parseSymbolArg(lib *sound.Library, arg string) (sound.Symbol, error) {
	if strings.HasSuffix(arg, "]") {
		if !strings.Contains(arg, "[") {
			return sound.Symbol{}, usageErrorf("malformed symbol key %q", arg)
		}
		return sound.ParseSymbolKey(arg), nil
	}
	return lib.Parse(arg)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
