package hlsl

import "github.com/roach88/shade/internal/ir"

// CatalogType is the declaring type reported in every signature.
const CatalogType = "hlsl"

// Op identifies one catalog operation by name.
type Op uint8

const (
	OpAllMemoryBarrier Op = iota
	OpAllMemoryBarrierWithGroupSync
	OpDeviceMemoryBarrier
	OpDeviceMemoryBarrierWithGroupSync
	OpGroupMemoryBarrier
	OpGroupMemoryBarrierWithGroupSync
	OpInterlockedAdd
	OpInterlockedAnd
	OpInterlockedCompareExchange
	OpInterlockedCompareStore
	OpInterlockedExchange
	OpInterlockedMax
	OpInterlockedMin
	OpInterlockedOr
	OpInterlockedXor

	numOps
)

// form is the set of overload forms an atomic operation offers.
type form uint8

const (
	formPlain    form = 1 << iota // (destination, [comparison,] value)
	formOriginal                  // (destination, [comparison,] value, original)
)

type opSpec struct {
	name       string
	family     ir.Family
	comparison bool
	forms      form
}

// ops is the declarative table the whole overload matrix is generated from.
// Each atomic row expands over ir.Kinds and its forms.
var ops = [numOps]opSpec{
	OpAllMemoryBarrier:                 {"AllMemoryBarrier", ir.FamilyBarrier, false, 0},
	OpAllMemoryBarrierWithGroupSync:    {"AllMemoryBarrierWithGroupSync", ir.FamilyBarrier, false, 0},
	OpDeviceMemoryBarrier:              {"DeviceMemoryBarrier", ir.FamilyBarrier, false, 0},
	OpDeviceMemoryBarrierWithGroupSync: {"DeviceMemoryBarrierWithGroupSync", ir.FamilyBarrier, false, 0},
	OpGroupMemoryBarrier:               {"GroupMemoryBarrier", ir.FamilyBarrier, false, 0},
	OpGroupMemoryBarrierWithGroupSync:  {"GroupMemoryBarrierWithGroupSync", ir.FamilyBarrier, false, 0},
	OpInterlockedAdd:                   {"InterlockedAdd", ir.FamilyAtomic, false, formPlain | formOriginal},
	OpInterlockedAnd:                   {"InterlockedAnd", ir.FamilyAtomic, false, formPlain | formOriginal},
	OpInterlockedCompareExchange:       {"InterlockedCompareExchange", ir.FamilyAtomic, true, formOriginal},
	OpInterlockedCompareStore:          {"InterlockedCompareStore", ir.FamilyAtomic, true, formPlain},
	OpInterlockedExchange:              {"InterlockedExchange", ir.FamilyAtomic, false, formOriginal},
	OpInterlockedMax:                   {"InterlockedMax", ir.FamilyAtomic, false, formPlain | formOriginal},
	OpInterlockedMin:                   {"InterlockedMin", ir.FamilyAtomic, false, formPlain | formOriginal},
	OpInterlockedOr:                    {"InterlockedOr", ir.FamilyAtomic, false, formPlain | formOriginal},
	OpInterlockedXor:                   {"InterlockedXor", ir.FamilyAtomic, false, formPlain | formOriginal},
}

// Ops returns every operation in catalog order.
func Ops() []Op {
	out := make([]Op, 0, numOps)
	for op := Op(0); op < numOps; op++ {
		out = append(out, op)
	}
	return out
}

// Valid reports whether op names a catalog operation.
func (op Op) Valid() bool {
	return op < numOps
}

// String returns the operation name, e.g. "InterlockedAdd".
func (op Op) String() string {
	if !op.Valid() {
		return "Op(invalid)"
	}
	return ops[op].name
}

// Family returns the family of the operation.
func (op Op) Family() ir.Family {
	if !op.Valid() {
		return ""
	}
	return ops[op].family
}

// HasComparison reports whether the operation takes a comparison operand.
func (op Op) HasComparison() bool {
	return op.Valid() && ops[op].comparison
}

// HasPlain reports whether the operation has a form without an original slot.
func (op Op) HasPlain() bool {
	return op.Valid() && ops[op].forms&formPlain != 0
}

// HasOriginal reports whether the operation has a form with an original slot.
func (op Op) HasOriginal() bool {
	return op.Valid() && ops[op].forms&formOriginal != 0
}
