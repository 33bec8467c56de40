package check

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/hlsl"
	"github.com/roach88/shade/internal/ir"
)

// indexOf returns the position of the overload with the given Go identifier
// and destination kind in a fresh catalog.
func indexOf(t *testing.T, catalog []ir.Overload, fn string, kind ir.Kind) int {
	t.Helper()
	for i, o := range catalog {
		if o.Func == fn && o.Kind() == kind {
			return i
		}
	}
	t.Fatalf("overload %s/%s not in catalog", fn, kind)
	return -1
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestCompiledCatalogIsValid(t *testing.T) {
	errs := Validate(hlsl.Catalog())
	assert.Empty(t, errs, "compiled catalog must satisfy every invariant")
}

func TestEmptyCatalog(t *testing.T) {
	assert.Empty(t, Validate(nil))
}

func TestMissingKindVariant(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedMin", ir.KindUint32)
	catalog = slices.Delete(catalog, i, i+1)

	errs := Validate(catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnpairedKind, errs[0].Code)
	assert.Equal(t, "InterlockedMin[ref,in]", errs[0].Field)
	assert.Contains(t, errs[0].Message, "uint32")
}

func TestBarrierWithParams(t *testing.T) {
	catalog := hlsl.Catalog()
	catalog[0].Params = []ir.Param{{Name: "scope", Kind: ir.KindUint32, Direction: ir.DirIn}}

	errs := Validate(catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrBarrierParams, errs[0].Code)
	assert.Equal(t, "overloads[0].params", errs[0].Field)
}

func TestOriginalSlotNotLast(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedAddOriginal", ir.KindInt32)
	p := catalog[i].Params
	p[1], p[2] = p[2], p[1]

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrOriginalSlot)
	assert.Contains(t, codes(errs), ErrUnpairedKind)
}

func TestMixedKinds(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedAdd", ir.KindInt32)
	catalog[i].Params[1].Kind = ir.KindUint32

	errs := Validate(catalog)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrMixedKinds, errs[0].Code)
	assert.Equal(t, "overloads[6].params[1].kind", errs[0].Field)
	assert.Contains(t, codes(errs), ErrOriginalSlot, "plain form no longer matches its capturing form")
}

func TestOriginalSlotWrongKind(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedExchange", ir.KindUint32)
	catalog[i].Params[2].Kind = ir.KindInt32

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrMixedKinds)
	assert.Contains(t, codes(errs), ErrOriginalSlot)
}

func TestCompareStoreWithOriginal(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedCompareStore", ir.KindInt32)
	catalog[i].Params = append(catalog[i].Params, ir.Param{Name: "original", Kind: ir.KindInt32, Direction: ir.DirOut})

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrCompareArity)
	assert.NotContains(t, codes(errs), ErrCompareExchangeShape)
}

func TestCompareExchangeWithoutOriginal(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedCompareExchange", ir.KindUint32)
	catalog[i].Params = catalog[i].Params[:3]

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrCompareArity)
}

func TestCompareExchangeShapeReserved(t *testing.T) {
	catalog := hlsl.Catalog()
	for _, kind := range ir.Kinds {
		i := indexOf(t, catalog, "InterlockedAndOriginal", kind)
		p := catalog[i].Params
		catalog[i].Params = []ir.Param{p[0], {Name: "comparison", Kind: kind, Direction: ir.DirIn}, p[1], p[2]}
	}

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrCompareExchangeShape)
	assert.NotContains(t, codes(errs), ErrUnpairedKind)
}

func TestDuplicateOverload(t *testing.T) {
	catalog := hlsl.Catalog()
	catalog = append(catalog, catalog[10])

	errs := Validate(catalog)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrAmbiguousOverload, errs[0].Code)
	assert.Equal(t, ErrAmbiguousOverload, errs[1].Code)
	assert.Contains(t, errs[0].Message, "overloads[10]")
}

func TestCatalogTypeMismatch(t *testing.T) {
	catalog := hlsl.Catalog()
	catalog[3].Type = "Hlsl"

	errs := Validate(catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCatalogType, errs[0].Code)
	assert.Equal(t, "overloads[3].type", errs[0].Field)
}

func TestUnknownFamily(t *testing.T) {
	catalog := hlsl.Catalog()
	catalog[2].Family = "fence"

	errs := Validate(catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownFamily, errs[0].Code)
}

func TestUnsupportedKind(t *testing.T) {
	o := ir.Overload{
		Type:   "hlsl",
		Member: "InterlockedAdd",
		Func:   "InterlockedAdd",
		Family: ir.FamilyAtomic,
		Params: []ir.Param{
			{Name: "destination", Kind: "float32", Direction: ir.DirRef},
			{Name: "value", Kind: "float32", Direction: "byref"},
		},
	}

	errs := Validate([]ir.Overload{o})
	assert.Contains(t, codes(errs), ErrUnsupportedKind)
	assert.Contains(t, codes(errs), ErrUnpairedKind)

	var directionErr bool
	for _, e := range errs {
		if e.Field == "overloads[0].params[1].direction" {
			directionErr = true
		}
	}
	assert.True(t, directionErr, "invalid direction reported: %v", errs)
}

func TestMissingDestination(t *testing.T) {
	catalog := hlsl.Catalog()
	i := indexOf(t, catalog, "InterlockedOr", ir.KindInt32)
	catalog[i].Params[0].Direction = ir.DirIn
	catalog[i].Params[1].Direction = ir.DirRef

	errs := Validate(catalog)
	assert.Contains(t, codes(errs), ErrMissingDestination)
}

func TestCollectsAllErrors(t *testing.T) {
	catalog := hlsl.Catalog()
	catalog[0].Params = []ir.Param{{Name: "x", Kind: ir.KindInt32, Direction: ir.DirIn}}
	catalog[1].Type = "other"
	catalog[2].Family = ""

	errs := Validate(catalog)
	assert.Equal(t, []string{ErrBarrierParams, ErrCatalogType, ErrUnknownFamily}, codes(errs))
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "overloads[1].type", Message: "bad", Code: ErrCatalogType}
	assert.Equal(t, "[E209] overloads[1].type: bad", err.Error())
}
