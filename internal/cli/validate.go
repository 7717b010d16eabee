package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sound"
	"github.com/roach88/sound/internal/compiler"
	"github.com/roach88/sound/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Version     string                     `json:"version,omitempty"`
	Fingerprint string                     `json:"fingerprint,omitempty"`
	Symbols     int                        `json:"symbols,omitempty"`
	Collisions  int                        `json:"collisions,omitempty"`
	Accents     []string                   `json:"accents,omitempty"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [table]",
		Short: "Validate a feature table and accent files",
		Long: `Compile a table (a .cue file or CUE package directory, the --table
setting, or the embedded table) and check it together with the configured
accent files. All findings are reported, not just the first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.cfg.Table
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	table, err := loadTable(path)
	if err != nil {
		return f.Fail(err)
	}
	if path == "" {
		f.VerboseLog("Validating embedded table %s", table.Version)
	} else {
		f.VerboseLog("Validating %s (table %s)", path, table.Version)
	}

	errs := compiler.Validate(*table)
	for _, accentPath := range opts.cfg.Accents {
		f.VerboseLog("Validating accent file: %s", accentPath)
		_, err := compiler.LoadAccents(accentPath, table.Features)
		var verrs compiler.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			for _, e := range verrs {
				e.Field = accentPath + ": " + e.Field
				errs = append(errs, e)
			}
		case err != nil:
			return f.Fail(err)
		}
	}
	if len(errs) > 0 {
		return outputValidationErrors(f, errs)
	}

	// Accent files are valid; opening the library compiles them against the
	// symbol space.
	lib, err := sound.Open(
		sound.WithTable(*table),
		sound.WithAccentFiles(opts.cfg.Accents...),
		sound.WithMaxModifiers(opts.cfg.MaxModifiers),
		sound.WithLogger(opts.cfg.Logger(cmd.ErrOrStderr())),
	)
	if err != nil {
		return f.Fail(err)
	}

	result := ValidationResult{
		Valid:       true,
		Version:     lib.Version(),
		Fingerprint: lib.Fingerprint(),
		Symbols:     len(lib.Symbols()),
		Collisions:  len(lib.Collisions()),
		Accents:     lib.Accents(),
	}
	text := fmt.Sprintf("✓ Table %s valid: %d symbols, %d collisions, %d accents\n",
		result.Version, result.Symbols, result.Collisions, len(result.Accents))
	return f.Success(result, text)
}

func loadTable(path string) (*ir.TableSpec, error) {
	if path == "" {
		return compiler.DefaultTable()
	}
	return compiler.LoadTable(path)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
