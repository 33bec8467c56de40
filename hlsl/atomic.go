package hlsl

import "github.com/roach88/shade/internal/ir"

// Integer is the set of operand types the atomics accept. The types are
// exact: named types over int32 or uint32 are not part of the catalog.
type Integer interface {
	int32 | uint32
}

// KindOf returns the numeric kind of T.
func KindOf[T Integer]() ir.Kind {
	var zero T
	if _, ok := any(zero).(int32); ok {
		return ir.KindInt32
	}
	return ir.KindUint32
}

func atomic[T Integer](op Op, original bool) Intrinsic {
	return Intrinsic{Op: op, Kind: KindOf[T](), Original: original}
}

// InterlockedAdd atomically adds value to *destination.
func InterlockedAdd[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedAdd, false))
}

// InterlockedAddOriginal atomically adds value to *destination and stores
// the previous value in *original.
func InterlockedAddOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedAdd, true))
}

// InterlockedAnd atomically ands value into *destination.
func InterlockedAnd[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedAnd, false))
}

// InterlockedAndOriginal atomically ands value into *destination and stores
// the previous value in *original.
func InterlockedAndOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedAnd, true))
}

// InterlockedCompareExchange writes value to *destination if it equals
// comparison. The previous value is always stored in *original.
func InterlockedCompareExchange[T Integer](destination *T, comparison, value T, original *T) {
	fail(atomic[T](OpInterlockedCompareExchange, true))
}

// InterlockedCompareStore writes value to *destination if it equals comparison.
func InterlockedCompareStore[T Integer](destination *T, comparison, value T) {
	fail(atomic[T](OpInterlockedCompareStore, false))
}

// InterlockedExchange writes value to *destination and stores the previous
// value in *original.
func InterlockedExchange[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedExchange, true))
}

// InterlockedMax atomically stores the maximum of *destination and value.
func InterlockedMax[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedMax, false))
}

// InterlockedMaxOriginal atomically stores the maximum of *destination and
// value, and stores the previous value in *original.
func InterlockedMaxOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedMax, true))
}

// InterlockedMin atomically stores the minimum of *destination and value.
func InterlockedMin[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedMin, false))
}

// InterlockedMinOriginal atomically stores the minimum of *destination and
// value, and stores the previous value in *original.
func InterlockedMinOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedMin, true))
}

// InterlockedOr atomically ors value into *destination.
func InterlockedOr[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedOr, false))
}

// InterlockedOrOriginal atomically ors value into *destination and stores
// the previous value in *original.
func InterlockedOrOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedOr, true))
}

// InterlockedXor atomically xors value into *destination.
func InterlockedXor[T Integer](destination *T, value T) {
	fail(atomic[T](OpInterlockedXor, false))
}

// InterlockedXorOriginal atomically xors value into *destination and stores
// the previous value in *original.
func InterlockedXorOriginal[T Integer](destination *T, value T, original *T) {
	fail(atomic[T](OpInterlockedXor, true))
}
