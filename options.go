package sound

import (
	"log/slog"

	"github.com/roach88/sound/internal/inventory"
	"github.com/roach88/sound/internal/ir"
)

type options struct {
	table        *ir.TableSpec
	tablePath    string
	accentFiles  []string
	maxModifiers int
	logger       *slog.Logger
	ids          inventory.BuildIDGenerator
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		ids:    inventory.UUIDv7Generator{},
	}
}

// Option configures Open.
type Option func(*options)

// WithTableFile loads the table from a .cue file or a directory holding a
// CUE package instead of the embedded table. Reload reads it again.
func WithTableFile(path string) Option {
	return func(o *options) { o.tablePath = path }
}

// WithTable uses an already compiled table. It takes precedence over
// WithTableFile.
func WithTable(t TableSpec) Option {
	return func(o *options) { o.table = &t }
}

// WithAccentFiles registers the accents of YAML accent files after the
// table's own. Reload reads them again.
func WithAccentFiles(paths ...string) Option {
	return func(o *options) { o.accentFiles = append(o.accentFiles, paths...) }
}

// WithMaxModifiers bounds how many modifiers an enumerated symbol carries.
// Zero, the default, enumerates every conflict free modifier set.
func WithMaxModifiers(n int) Option {
	return func(o *options) { o.maxModifiers = n }
}

// WithLogger sets the logger for load and build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBuildIDGenerator sets the generator for inventory build ids.
func WithBuildIDGenerator(g BuildIDGenerator) Option {
	return func(o *options) { o.ids = g }
}
