package compiler

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/sound/internal/ir"
)

//go:embed ipa.cue
var ipaCUE []byte

// DefaultFilename is the name positions in the embedded table report.
const DefaultFilename = "ipa.cue"

// tablePath is where a table source declares its table.
var tablePath = cue.ParsePath("table")

// schemaPath locates the table schema in the embedded source.
var schemaPath = cue.ParsePath("#Table")

// DefaultTable compiles the embedded authoritative table.
//
// Each call compiles afresh and returns a value the caller owns.
func DefaultTable() (*ir.TableSpec, error) {
	return CompileSource(ipaCUE, DefaultFilename)
}

// DefaultSource returns the embedded table source.
func DefaultSource() []byte {
	return append([]byte(nil), ipaCUE...)
}

// CompileSource compiles a single CUE file holding a top-level "table".
// The table is checked against the embedded #Table schema.
func CompileSource(src []byte, filename string) (*ir.TableSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileWithSchema(ctx, v)
}

// LoadTable compiles a table from disk. path may be a single .cue file or a
// directory holding one CUE package.
func LoadTable(path string) (*ir.TableSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("table source: %w", err)
	}
	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("table source: %w", err)
		}
		return CompileSource(src, path)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return nil, &CompileError{Field: "table", Message: fmt.Sprintf("no CUE instances in %s", path)}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileWithSchema(ctx, v)
}

func compileWithSchema(ctx *cue.Context, root cue.Value) (*ir.TableSpec, error) {
	table := root.LookupPath(tablePath)
	if !table.Exists() {
		return nil, &CompileError{Field: "table", Message: "no table declared", Pos: root.Pos()}
	}

	schema := ctx.CompileBytes(ipaCUE, cue.Filename(DefaultFilename)).LookupPath(schemaPath)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	return CompileTable(schema.Unify(table))
}

// CompileTable converts a CUE table value into its declaration form.
// The value must be concrete.
func CompileTable(v cue.Value) (*ir.TableSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var spec ir.TableSpec
	if err := v.Decode(&spec); err != nil {
		return nil, formatCUEError(err)
	}
	return &spec, nil
}
