// Package hlsl declares the GPU barrier and atomic intrinsics that compute
// kernels written in Go may call.
//
// Every function in this package is a marker. The shade translator finds
// calls to them by (package, identifier, type argument) and rewrites each
// one into the matching HLSL intrinsic, so on the GPU the body below never
// runs. On the host the body always panics with an
// *InvalidExecutionContextError whose message names the exact overload:
//
//	hlsl.InterlockedAdd(int32, int32, int32)
//
// Overloads are expressed with generics over Integer. The static type of the
// destination selects the int32 or uint32 overload, and because the
// constraint lists exact types a call that mixes kinds does not compile.
// Operations that can report the pre-operation value come in two forms:
//
//	hlsl.InterlockedAdd(&bins[v], 1)                 // fire and forget
//	hlsl.InterlockedAddOriginal(&bins[v], 1, &prev)  // prev receives the old value
//
// InterlockedExchange and InterlockedCompareExchange always report the
// original value; InterlockedCompareStore never does.
//
// The catalog itself is data: Catalog lists every overload as an
// ir.Overload, and Intrinsic is the comparable marker for one of them.
package hlsl
