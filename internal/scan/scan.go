// Package scan finds calls into the intrinsic catalog in kernel source and
// resolves each one to a single overload using static types only.
package scan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roach88/shade/hlsl"
	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/logging"
)

// Diagnostic codes (E300-E399)
const (
	ErrNotCalled  = "E300" // catalog function used as a value
	ErrUnresolved = "E301" // overload cannot be chosen from static types
	ErrTypeCheck  = "E302" // kernel does not type-check
)

// Options configures a scan.
type Options struct {
	// ImportPath is the catalog import path. Defaults to DefaultImportPath.
	ImportPath string

	// Importer resolves every other import. Defaults to a source importer.
	Importer types.Importer

	// Log receives debug output. Defaults to a logger that drops everything.
	Log logrus.FieldLogger
}

// CallSite is one resolved call into the catalog.
type CallSite struct {
	Pos       token.Position `json:"-"`
	Location  string         `json:"location"`
	Func      string         `json:"func"`
	Signature string         `json:"signature"`
	ID        string         `json:"id"`
	ArgText   []string       `json:"args"`

	Intrinsic hlsl.Intrinsic `json:"-"`
	Overload  ir.Overload    `json:"-"`
	Args      []ast.Expr     `json:"-"`
}

// Diagnostic is a problem that prevents a call site from being rewritten.
type Diagnostic struct {
	Pos      token.Position `json:"-"`
	Location string         `json:"location"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: [%s] %s", d.Location, d.Code, d.Message)
}

// Report is the result of scanning one kernel package.
type Report struct {
	Package     string       `json:"package"`
	Files       []string     `json:"files"`
	Calls       []CallSite   `json:"calls"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// OK reports whether every catalog reference was resolved.
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

// ErrNoGoFiles is returned when a directory holds no kernel source.
var ErrNoGoFiles = errors.New("no Go files")

// Dir scans the non-test Go files of one directory.
func Dir(ctx context.Context, dir string, opts Options) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading kernel directory: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoGoFiles)
	}

	return Files(ctx, fset, files, opts)
}

// Source scans a single in-memory file.
func Source(ctx context.Context, filename, src string, opts Options) (*Report, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return Files(ctx, fset, []*ast.File{f}, opts)
}

// Files type-checks already parsed files of one package and resolves every
// catalog reference in them.
func Files(ctx context.Context, fset *token.FileSet, files []*ast.File, opts Options) (*Report, error) {
	if len(files) == 0 {
		return nil, ErrNoGoFiles
	}
	importPath := opts.ImportPath
	if importPath == "" {
		importPath = DefaultImportPath
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	fallback := opts.Importer
	if fallback == nil {
		fallback = importer.ForCompiler(fset, "source", nil)
	}

	report := &Report{Package: files[0].Name.Name}
	for _, f := range files {
		if f.Name.Name != report.Package {
			return nil, fmt.Errorf("mixed packages %q and %q", report.Package, f.Name.Name)
		}
		report.Files = append(report.Files, fset.Position(f.Package).Filename)
	}

	conf := types.Config{
		Importer: &catalogImporter{
			path:     importPath,
			catalog:  NewCatalogPackage(importPath),
			fallback: fallback,
		},
		Error: func(err error) {
			report.Diagnostics = append(report.Diagnostics, typeErrorDiagnostic(err))
		},
	}
	info := &types.Info{
		Uses:      make(map[*ast.Ident]types.Object),
		Instances: make(map[*ast.Ident]types.Instance),
	}
	// Errors are collected through conf.Error; the first one is also returned.
	_, _ = conf.Check(report.Package, fset, files, info)

	called := make(map[*ast.Ident]bool)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.WithField("file", fset.Position(f.Package).Filename).Debug("resolving catalog calls")

		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			ident := calleeIdent(call.Fun)
			if ident == nil || !isCatalogFunc(info.Uses[ident], importPath) {
				return true
			}
			called[ident] = true

			site, diag := resolve(fset, info, ident, call)
			if diag != nil {
				report.Diagnostics = append(report.Diagnostics, *diag)
				return true
			}
			log.WithFields(logrus.Fields{
				"location":  site.Location,
				"signature": site.Signature,
			}).Debug("resolved call site")
			report.Calls = append(report.Calls, site)
			return true
		})
	}

	for ident, obj := range info.Uses {
		if called[ident] || !isCatalogFunc(obj, importPath) {
			continue
		}
		pos := fset.Position(ident.Pos())
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Pos:      pos,
			Location: pos.String(),
			Code:     ErrNotCalled,
			Message:  fmt.Sprintf("%s.%s is used as a value; only direct calls can be translated", obj.Pkg().Name(), obj.Name()),
		})
	}

	slices.SortStableFunc(report.Diagnostics, func(a, b Diagnostic) int {
		return comparePos(a.Pos, b.Pos)
	})
	return report, nil
}

// resolve picks the overload for one call.
func resolve(fset *token.FileSet, info *types.Info, ident *ast.Ident, call *ast.CallExpr) (CallSite, *Diagnostic) {
	pos := fset.Position(call.Pos())
	fn := ident.Name

	var kind ir.Kind
	if inst, ok := info.Instances[ident]; ok && inst.TypeArgs != nil && inst.TypeArgs.Len() == 1 {
		targ := inst.TypeArgs.At(0)
		k, ok := kindOf(targ)
		if !ok {
			return CallSite{}, &Diagnostic{
				Pos:      pos,
				Location: pos.String(),
				Code:     ErrUnresolved,
				Message:  fmt.Sprintf("%s instantiated with %s; the operand type must be int32 or uint32 at the call site", fn, targ),
			}
		}
		kind = k
	}

	marker, ok := hlsl.Lookup(fn, kind)
	if !ok {
		msg := fmt.Sprintf("no overload of %s for kind %q", fn, kind)
		if kind == "" {
			msg = fmt.Sprintf("cannot infer the operand kind of %s from static types", fn)
		}
		return CallSite{}, &Diagnostic{
			Pos:      pos,
			Location: pos.String(),
			Code:     ErrUnresolved,
			Message:  msg,
		}
	}

	o := marker.Overload()
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = types.ExprString(a)
	}
	return CallSite{
		Pos:       pos,
		Location:  pos.String(),
		Func:      fn,
		Signature: o.Signature(),
		ID:        ir.MustOverloadID(o),
		ArgText:   args,
		Intrinsic: marker,
		Overload:  o,
		Args:      call.Args,
	}, nil
}

// calleeIdent returns the identifier naming the called function, looking
// through parentheses and explicit instantiation.
func calleeIdent(fun ast.Expr) *ast.Ident {
	for {
		switch e := fun.(type) {
		case *ast.ParenExpr:
			fun = e.X
		case *ast.IndexExpr:
			fun = e.X
		case *ast.IndexListExpr:
			fun = e.X
		case *ast.SelectorExpr:
			return e.Sel
		case *ast.Ident:
			return e
		default:
			return nil
		}
	}
}

func isCatalogFunc(obj types.Object, importPath string) bool {
	fn, ok := obj.(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == importPath
}

func typeErrorDiagnostic(err error) Diagnostic {
	var terr types.Error
	if errors.As(err, &terr) {
		pos := terr.Fset.Position(terr.Pos)
		return Diagnostic{Pos: pos, Location: pos.String(), Code: ErrTypeCheck, Message: terr.Msg}
	}
	return Diagnostic{Code: ErrTypeCheck, Message: err.Error()}
}

func comparePos(a, b token.Position) int {
	if c := strings.Compare(a.Filename, b.Filename); c != 0 {
		return c
	}
	return a.Offset - b.Offset
}
