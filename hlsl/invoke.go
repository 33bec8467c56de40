package hlsl

import (
	"fmt"

	"github.com/roach88/shade/internal/ir"
)

// Invoke calls the exported function behind a marker on the host with fresh
// zero-valued cells and returns the guard error it raises. A nil error means
// the function returned normally, which a valid catalog never does.
func Invoke(i Intrinsic) error {
	if !i.Valid() {
		return fmt.Errorf("hlsl: not a catalog overload: %s", i)
	}
	return Catch(func() {
		switch {
		case i.Op.Family() == ir.FamilyBarrier:
			callBarrier(i.Op)
		case i.Kind == ir.KindInt32:
			callAtomic[int32](i)
		default:
			callAtomic[uint32](i)
		}
	})
}

func callBarrier(op Op) {
	switch op {
	case OpAllMemoryBarrier:
		AllMemoryBarrier()
	case OpAllMemoryBarrierWithGroupSync:
		AllMemoryBarrierWithGroupSync()
	case OpDeviceMemoryBarrier:
		DeviceMemoryBarrier()
	case OpDeviceMemoryBarrierWithGroupSync:
		DeviceMemoryBarrierWithGroupSync()
	case OpGroupMemoryBarrier:
		GroupMemoryBarrier()
	case OpGroupMemoryBarrierWithGroupSync:
		GroupMemoryBarrierWithGroupSync()
	}
}

func callAtomic[T Integer](i Intrinsic) {
	var destination, comparison, value, original T

	switch i.Op {
	case OpInterlockedAdd:
		if i.Original {
			InterlockedAddOriginal(&destination, value, &original)
		} else {
			InterlockedAdd(&destination, value)
		}
	case OpInterlockedAnd:
		if i.Original {
			InterlockedAndOriginal(&destination, value, &original)
		} else {
			InterlockedAnd(&destination, value)
		}
	case OpInterlockedCompareExchange:
		InterlockedCompareExchange(&destination, comparison, value, &original)
	case OpInterlockedCompareStore:
		InterlockedCompareStore(&destination, comparison, value)
	case OpInterlockedExchange:
		InterlockedExchange(&destination, value, &original)
	case OpInterlockedMax:
		if i.Original {
			InterlockedMaxOriginal(&destination, value, &original)
		} else {
			InterlockedMax(&destination, value)
		}
	case OpInterlockedMin:
		if i.Original {
			InterlockedMinOriginal(&destination, value, &original)
		} else {
			InterlockedMin(&destination, value)
		}
	case OpInterlockedOr:
		if i.Original {
			InterlockedOrOriginal(&destination, value, &original)
		} else {
			InterlockedOr(&destination, value)
		}
	case OpInterlockedXor:
		if i.Original {
			InterlockedXorOriginal(&destination, value, &original)
		} else {
			InterlockedXor(&destination, value)
		}
	}
}
