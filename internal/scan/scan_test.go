package scan

import (
	"context"
	"errors"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/hlsl"
	"github.com/roach88/shade/internal/ir"
)

const reduceKernel = `package kernels

import "github.com/roach88/shade/hlsl"

func Reduce(counts []int32, flags []uint32, i int) {
	var prev int32
	hlsl.InterlockedAddOriginal(&counts[i], 1, &prev)
	hlsl.InterlockedMin(&flags[i], 3)
	var old uint32
	hlsl.InterlockedCompareExchange[uint32](&flags[0], 0, 1, &old)
	hlsl.AllMemoryBarrierWithGroupSync()
}
`

type siteSummary struct {
	Location  string
	Signature string
	Args      []string
}

func summarize(calls []CallSite) []siteSummary {
	out := make([]siteSummary, len(calls))
	for i, c := range calls {
		out[i] = siteSummary{Location: c.Location, Signature: c.Signature, Args: c.ArgText}
	}
	return out
}

func quietOptions() Options {
	logger, _ := logtest.NewNullLogger()
	return Options{Log: logger}
}

func TestSourceResolvesOverloads(t *testing.T) {
	report, err := Source(context.Background(), "kernel.go", reduceKernel, quietOptions())
	require.NoError(t, err)
	require.True(t, report.OK(), "unexpected diagnostics: %v", report.Diagnostics)

	want := []siteSummary{
		{"kernel.go:7:2", "hlsl.InterlockedAdd(int32, int32, int32)", []string{"&counts[i]", "1", "&prev"}},
		{"kernel.go:8:2", "hlsl.InterlockedMin(uint32, uint32)", []string{"&flags[i]", "3"}},
		{"kernel.go:10:2", "hlsl.InterlockedCompareExchange(uint32, uint32, uint32, uint32)", []string{"&flags[0]", "0", "1", "&old"}},
		{"kernel.go:11:2", "hlsl.AllMemoryBarrierWithGroupSync()", []string{}},
	}
	if diff := cmp.Diff(want, summarize(report.Calls)); diff != "" {
		t.Errorf("call sites mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "kernels", report.Package)
	first := report.Calls[0]
	assert.Equal(t, hlsl.Intrinsic{Op: hlsl.OpInterlockedAdd, Kind: ir.KindInt32, Original: true}, first.Intrinsic)
	assert.Equal(t, ir.MustOverloadID(first.Overload), first.ID)
	assert.Len(t, first.Args, 3)
}

func TestDefaultLoggerIsSilent(t *testing.T) {
	hook := logtest.NewGlobal()
	std := logrus.StandardLogger()
	level := std.GetLevel()
	std.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() { std.SetLevel(level) })

	report, err := Source(context.Background(), "kernel.go", reduceKernel, Options{})
	require.NoError(t, err)
	assert.Len(t, report.Calls, 4)
	assert.Empty(t, hook.AllEntries())
}

func TestDotAndAliasedImports(t *testing.T) {
	src := `package kernels

import (
	. "github.com/roach88/shade/hlsl"
	gpu "github.com/roach88/shade/hlsl"
)

func Mask(bits []uint32, i int) {
	InterlockedXor(&bits[i], 1)
	gpu.DeviceMemoryBarrier()
}
`
	report, err := Source(context.Background(), "mask.go", src, quietOptions())
	require.NoError(t, err)
	require.True(t, report.OK(), "unexpected diagnostics: %v", report.Diagnostics)
	require.Len(t, report.Calls, 2)

	assert.Equal(t, "hlsl.InterlockedXor(uint32, uint32)", report.Calls[0].Signature)
	assert.Equal(t, "hlsl.DeviceMemoryBarrier()", report.Calls[1].Signature)
}

func TestRuneResolvesAsInt32(t *testing.T) {
	src := `package kernels

import "github.com/roach88/shade/hlsl"

func Swap(cells []rune, i int, v rune) rune {
	var was rune
	hlsl.InterlockedExchange(&cells[i], v, &was)
	return was
}
`
	report, err := Source(context.Background(), "swap.go", src, quietOptions())
	require.NoError(t, err)
	require.Len(t, report.Calls, 1)
	assert.Equal(t, "hlsl.InterlockedExchange(int32, int32, int32)", report.Calls[0].Signature)
}

func TestFunctionValueIsDiagnosed(t *testing.T) {
	src := `package kernels

import "github.com/roach88/shade/hlsl"

var sync = hlsl.AllMemoryBarrier

func Run() {
	sync()
}
`
	report, err := Source(context.Background(), "value.go", src, quietOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Calls)
	require.Len(t, report.Diagnostics, 1)

	d := report.Diagnostics[0]
	assert.Equal(t, ErrNotCalled, d.Code)
	assert.Equal(t, "value.go:5:17", d.Location)
	assert.Contains(t, d.Message, "hlsl.AllMemoryBarrier is used as a value")
}

func TestGenericOperandIsUnresolved(t *testing.T) {
	src := `package kernels

import "github.com/roach88/shade/hlsl"

func Or[T hlsl.Integer](p *T, v T) {
	hlsl.InterlockedOr(p, v)
}
`
	report, err := Source(context.Background(), "generic.go", src, quietOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Calls)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, ErrUnresolved, report.Diagnostics[0].Code)
	assert.Contains(t, report.Diagnostics[0].Message, "must be int32 or uint32")
}

func TestMixedKindsDoNotTypeCheck(t *testing.T) {
	src := `package kernels

import "github.com/roach88/shade/hlsl"

func Mixed(a *int32, b uint32) {
	hlsl.InterlockedAdd(a, b)
}
`
	report, err := Source(context.Background(), "mixed.go", src, quietOptions())
	require.NoError(t, err)
	assert.False(t, report.OK())

	var typeErr bool
	for _, d := range report.Diagnostics {
		if d.Code == ErrTypeCheck {
			typeErr = true
		}
	}
	assert.True(t, typeErr, "mixed-kind call must be a type error: %v", report.Diagnostics)
}

func TestUnknownCatalogMember(t *testing.T) {
	src := `package kernels

import "github.com/roach88/shade/hlsl"

func F(p *int32) {
	hlsl.InterlockedSub(p, 1)
}
`
	report, err := Source(context.Background(), "unknown.go", src, quietOptions())
	require.NoError(t, err)
	require.NotEmpty(t, report.Diagnostics)
	assert.Equal(t, ErrTypeCheck, report.Diagnostics[0].Code)
	assert.Contains(t, report.Diagnostics[0].Message, "InterlockedSub")
}

func TestCustomImportPathAndImporter(t *testing.T) {
	src := `package kernels

import (
	"example.com/gpu/hlsl"
	_ "example.com/other"
)

func F(p *uint32) {
	hlsl.InterlockedAnd(p, 0xf0)
}
`
	other := types.NewPackage("example.com/other", "other")
	other.MarkComplete()

	opts := quietOptions()
	opts.ImportPath = "example.com/gpu/hlsl"
	opts.Importer = importerFunc(func(path string) (*types.Package, error) {
		if path == "example.com/other" {
			return other, nil
		}
		return nil, errors.New("unexpected import " + path)
	})

	report, err := Source(context.Background(), "custom.go", src, opts)
	require.NoError(t, err)
	require.True(t, report.OK(), "unexpected diagnostics: %v", report.Diagnostics)
	require.Len(t, report.Calls, 1)
	assert.Equal(t, "hlsl.InterlockedAnd(uint32, uint32)", report.Calls[0].Signature)
}

func TestDefaultPathIgnoredWhenCustomized(t *testing.T) {
	opts := quietOptions()
	opts.ImportPath = "example.com/gpu/hlsl"
	opts.Importer = importerFunc(func(path string) (*types.Package, error) {
		return nil, errors.New("not found: " + path)
	})

	report, err := Source(context.Background(), "kernel.go", reduceKernel, opts)
	require.NoError(t, err)
	assert.Empty(t, report.Calls)
	assert.False(t, report.OK(), "the default catalog path is no longer importable")
}

func TestDir(t *testing.T) {
	report, err := Dir(context.Background(), filepath.Join("testdata", "histogram"), quietOptions())
	require.NoError(t, err)
	require.True(t, report.OK(), "unexpected diagnostics: %v", report.Diagnostics)

	assert.Equal(t, "histogram", report.Package)
	assert.Equal(t, []string{
		filepath.Join("testdata", "histogram", "histogram.go"),
		filepath.Join("testdata", "histogram", "peak.go"),
	}, report.Files)

	want := []string{
		"hlsl.InterlockedAdd(uint32, uint32)",
		"hlsl.GroupMemoryBarrierWithGroupSync()",
		"hlsl.InterlockedMax(int32, int32, int32)",
	}
	var got []string
	for _, c := range report.Calls {
		got = append(got, c.Signature)
	}
	assert.Equal(t, want, got)
}

func TestDirErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Dir(context.Background(), filepath.Join(t.TempDir(), "nope"), quietOptions())
		assert.Error(t, err)
	})

	t.Run("no go files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# kernels"), 0644))
		_, err := Dir(context.Background(), dir, quietOptions())
		assert.ErrorIs(t, err, ErrNoGoFiles)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.go"), []byte("package bad\nfunc {"), 0644))
		_, err := Dir(context.Background(), dir, quietOptions())
		assert.ErrorContains(t, err, "parsing bad.go")
	})

	t.Run("mixed packages", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0644))
		_, err := Dir(context.Background(), dir, quietOptions())
		assert.ErrorContains(t, err, "mixed packages")
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Dir(ctx, filepath.Join("testdata", "histogram"), quietOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDebugLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Source(context.Background(), "kernel.go", reduceKernel, Options{Log: logger})
	require.NoError(t, err)

	var resolved int
	for _, e := range hook.AllEntries() {
		if e.Message == "resolved call site" {
			resolved++
			assert.NotEmpty(t, e.Data["signature"])
		}
	}
	assert.Equal(t, 4, resolved)
}

func TestCatalogPackageDeclaresEveryFunc(t *testing.T) {
	pkg := NewCatalogPackage(DefaultImportPath)
	assert.True(t, pkg.Complete())

	for _, o := range hlsl.Catalog() {
		obj := pkg.Scope().Lookup(o.Func)
		require.NotNil(t, obj, o.Func)
		sig, ok := obj.Type().(*types.Signature)
		require.True(t, ok)
		assert.Equal(t, len(o.Params), sig.Params().Len(), o.Signature())
	}
	assert.NotNil(t, pkg.Scope().Lookup("Integer"))
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }
