package hlsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardMessages(t *testing.T) {
	var (
		i, ci, vi, oi int32
		u, cu, vu, ou uint32
	)

	tests := []struct {
		name     string
		call     func()
		expected string
	}{
		{"AllMemoryBarrier", AllMemoryBarrier, "hlsl.AllMemoryBarrier()"},
		{"AllMemoryBarrierWithGroupSync", AllMemoryBarrierWithGroupSync, "hlsl.AllMemoryBarrierWithGroupSync()"},
		{"DeviceMemoryBarrier", DeviceMemoryBarrier, "hlsl.DeviceMemoryBarrier()"},
		{"DeviceMemoryBarrierWithGroupSync", DeviceMemoryBarrierWithGroupSync, "hlsl.DeviceMemoryBarrierWithGroupSync()"},
		{"GroupMemoryBarrier", GroupMemoryBarrier, "hlsl.GroupMemoryBarrier()"},
		{"GroupMemoryBarrierWithGroupSync", GroupMemoryBarrierWithGroupSync, "hlsl.GroupMemoryBarrierWithGroupSync()"},

		{"add int32", func() { InterlockedAdd(&i, vi) }, "hlsl.InterlockedAdd(int32, int32)"},
		{"add int32 original", func() { InterlockedAddOriginal(&i, vi, &oi) }, "hlsl.InterlockedAdd(int32, int32, int32)"},
		{"add uint32", func() { InterlockedAdd(&u, vu) }, "hlsl.InterlockedAdd(uint32, uint32)"},
		{"add uint32 original", func() { InterlockedAddOriginal(&u, vu, &ou) }, "hlsl.InterlockedAdd(uint32, uint32, uint32)"},

		{"and int32", func() { InterlockedAnd(&i, vi) }, "hlsl.InterlockedAnd(int32, int32)"},
		{"and int32 original", func() { InterlockedAndOriginal(&i, vi, &oi) }, "hlsl.InterlockedAnd(int32, int32, int32)"},
		{"and uint32", func() { InterlockedAnd(&u, vu) }, "hlsl.InterlockedAnd(uint32, uint32)"},
		{"and uint32 original", func() { InterlockedAndOriginal(&u, vu, &ou) }, "hlsl.InterlockedAnd(uint32, uint32, uint32)"},

		{"compare exchange int32", func() { InterlockedCompareExchange(&i, ci, vi, &oi) }, "hlsl.InterlockedCompareExchange(int32, int32, int32, int32)"},
		{"compare exchange uint32", func() { InterlockedCompareExchange(&u, cu, vu, &ou) }, "hlsl.InterlockedCompareExchange(uint32, uint32, uint32, uint32)"},
		{"compare store int32", func() { InterlockedCompareStore(&i, ci, vi) }, "hlsl.InterlockedCompareStore(int32, int32, int32)"},
		{"compare store uint32", func() { InterlockedCompareStore(&u, cu, vu) }, "hlsl.InterlockedCompareStore(uint32, uint32, uint32)"},

		{"exchange int32", func() { InterlockedExchange(&i, vi, &oi) }, "hlsl.InterlockedExchange(int32, int32, int32)"},
		{"exchange uint32", func() { InterlockedExchange(&u, vu, &ou) }, "hlsl.InterlockedExchange(uint32, uint32, uint32)"},

		{"max int32", func() { InterlockedMax(&i, vi) }, "hlsl.InterlockedMax(int32, int32)"},
		{"max int32 original", func() { InterlockedMaxOriginal(&i, vi, &oi) }, "hlsl.InterlockedMax(int32, int32, int32)"},
		{"max uint32", func() { InterlockedMax(&u, vu) }, "hlsl.InterlockedMax(uint32, uint32)"},
		{"max uint32 original", func() { InterlockedMaxOriginal(&u, vu, &ou) }, "hlsl.InterlockedMax(uint32, uint32, uint32)"},

		{"min int32", func() { InterlockedMin(&i, vi) }, "hlsl.InterlockedMin(int32, int32)"},
		{"min int32 original", func() { InterlockedMinOriginal(&i, vi, &oi) }, "hlsl.InterlockedMin(int32, int32, int32)"},
		{"min uint32", func() { InterlockedMin(&u, vu) }, "hlsl.InterlockedMin(uint32, uint32)"},
		{"min uint32 original", func() { InterlockedMinOriginal(&u, vu, &ou) }, "hlsl.InterlockedMin(uint32, uint32, uint32)"},

		{"or int32", func() { InterlockedOr(&i, vi) }, "hlsl.InterlockedOr(int32, int32)"},
		{"or int32 original", func() { InterlockedOrOriginal(&i, vi, &oi) }, "hlsl.InterlockedOr(int32, int32, int32)"},
		{"or uint32", func() { InterlockedOr(&u, vu) }, "hlsl.InterlockedOr(uint32, uint32)"},
		{"or uint32 original", func() { InterlockedOrOriginal(&u, vu, &ou) }, "hlsl.InterlockedOr(uint32, uint32, uint32)"},

		{"xor int32", func() { InterlockedXor(&i, vi) }, "hlsl.InterlockedXor(int32, int32)"},
		{"xor int32 original", func() { InterlockedXorOriginal(&i, vi, &oi) }, "hlsl.InterlockedXor(int32, int32, int32)"},
		{"xor uint32", func() { InterlockedXor(&u, vu) }, "hlsl.InterlockedXor(uint32, uint32)"},
		{"xor uint32 original", func() { InterlockedXorOriginal(&u, vu, &ou) }, "hlsl.InterlockedXor(uint32, uint32, uint32)"},
	}

	require.Len(t, tests, len(Catalog()), "every overload has a direct call case")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PanicsWithError(t, tt.expected, tt.call)
		})
	}
}

func TestEveryIntrinsicFailsOnHost(t *testing.T) {
	for _, m := range Intrinsics() {
		t.Run(m.Signature(), func(t *testing.T) {
			err := Invoke(m)
			require.Error(t, err, "host invocation must never return normally")

			assert.True(t, errors.Is(err, ErrInvalidExecutionContext))
			assert.Equal(t, m.Signature(), err.Error())

			var guardErr *InvalidExecutionContextError
			require.True(t, errors.As(err, &guardErr))
			assert.Equal(t, m, guardErr.Intrinsic)
		})
	}
}

func TestGuardDoesNotMutate(t *testing.T) {
	signed, signedOriginal := int32(7), int32(9)
	unsigned, unsignedOriginal := uint32(11), uint32(13)

	calls := []func(){
		func() { InterlockedAddOriginal(&signed, 1, &signedOriginal) },
		func() { InterlockedExchange(&signed, 1, &signedOriginal) },
		func() { InterlockedCompareExchange(&signed, 7, 1, &signedOriginal) },
		func() { InterlockedCompareStore(&signed, 7, 1) },
		func() { InterlockedMinOriginal(&unsigned, 1, &unsignedOriginal) },
		func() { InterlockedXor(&unsigned, 0xff) },
		func() { InterlockedCompareExchange(&unsigned, 11, 1, &unsignedOriginal) },
	}

	for _, call := range calls {
		require.Error(t, Catch(call))
	}

	assert.Equal(t, int32(7), signed)
	assert.Equal(t, int32(9), signedOriginal)
	assert.Equal(t, uint32(11), unsigned)
	assert.Equal(t, uint32(13), unsignedOriginal)
}

func TestGuardIsIdempotent(t *testing.T) {
	var dst uint32
	call := func() { InterlockedMin(&dst, 3) }

	first := Catch(call)
	require.Error(t, first)
	for n := 0; n < 5; n++ {
		again := Catch(call)
		require.Error(t, again)
		assert.Equal(t, first.Error(), again.Error())
	}
	assert.Equal(t, "hlsl.InterlockedMin(uint32, uint32)", first.Error())
}

func TestCatch(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		assert.NoError(t, Catch(func() {}))
	})

	t.Run("guard panic", func(t *testing.T) {
		err := Catch(GroupMemoryBarrierWithGroupSync)
		require.Error(t, err)
		assert.Equal(t, "hlsl.GroupMemoryBarrierWithGroupSync()", err.Error())
	})

	t.Run("other panic propagates", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			_ = Catch(func() { panic("boom") })
		})
	})
}

func TestInvokeRejectsInvalidMarker(t *testing.T) {
	err := Invoke(Intrinsic{Op: OpInterlockedCompareStore, Kind: "int32", Original: true})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidExecutionContext))
	assert.Contains(t, err.Error(), "not a catalog overload")
}
