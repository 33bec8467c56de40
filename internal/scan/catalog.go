package scan

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/roach88/shade/hlsl"
	"github.com/roach88/shade/internal/ir"
)

// DefaultImportPath is the import path kernels use for the catalog.
const DefaultImportPath = "github.com/roach88/shade/hlsl"

// NewCatalogPackage builds a type-checked view of the catalog package from
// its descriptors alone. Kernels can then be checked without compiling the
// real hlsl package.
func NewCatalogPackage(path string) *types.Package {
	pkg := types.NewPackage(path, "hlsl")
	scope := pkg.Scope()

	integer := types.NewTypeName(token.NoPos, pkg, "Integer", nil)
	types.NewNamed(integer, integerConstraint(), nil)
	scope.Insert(integer)

	seen := make(map[string]bool)
	for _, o := range hlsl.Catalog() {
		if seen[o.Func] {
			continue
		}
		seen[o.Func] = true
		scope.Insert(types.NewFunc(token.NoPos, pkg, o.Func, signatureOf(pkg, integer.Type(), o)))
	}

	pkg.MarkComplete()
	return pkg
}

// integerConstraint is interface{ int32 | uint32 }.
func integerConstraint() *types.Interface {
	union := types.NewUnion([]*types.Term{
		types.NewTerm(false, types.Typ[types.Int32]),
		types.NewTerm(false, types.Typ[types.Uint32]),
	})
	iface := types.NewInterfaceType(nil, []types.Type{union})
	iface.Complete()
	return iface
}

// signatureOf renders one overload as a Go signature. Every atomic gets its
// own type parameter; ref and out params are pointers to it.
func signatureOf(pkg *types.Package, constraint types.Type, o ir.Overload) *types.Signature {
	if o.Family == ir.FamilyBarrier {
		return types.NewSignatureType(nil, nil, nil, nil, nil, false)
	}

	tparam := types.NewTypeParam(types.NewTypeName(token.NoPos, pkg, "T", nil), constraint)
	params := make([]*types.Var, len(o.Params))
	for i, p := range o.Params {
		var typ types.Type = tparam
		if p.Direction != ir.DirIn {
			typ = types.NewPointer(tparam)
		}
		params[i] = types.NewParam(token.NoPos, pkg, p.Name, typ)
	}
	return types.NewSignatureType(nil, nil, []*types.TypeParam{tparam}, types.NewTuple(params...), nil, false)
}

// catalogImporter serves the synthetic catalog package and defers every
// other import to a fallback importer.
type catalogImporter struct {
	path     string
	catalog  *types.Package
	fallback types.Importer
}

func (imp *catalogImporter) Import(path string) (*types.Package, error) {
	if path == imp.path {
		return imp.catalog, nil
	}
	if imp.fallback == nil {
		return nil, fmt.Errorf("cannot import %q: only %s is available to kernels", path, imp.path)
	}
	return imp.fallback.Import(path)
}

// kindOf maps a type argument to a catalog kind.
func kindOf(t types.Type) (ir.Kind, bool) {
	switch {
	case types.Identical(t, types.Typ[types.Int32]):
		return ir.KindInt32, true
	case types.Identical(t, types.Typ[types.Uint32]):
		return ir.KindUint32, true
	}
	return "", false
}
