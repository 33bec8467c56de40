// Package ir provides the signature descriptors shared by the intrinsic
// catalog and every tool that consumes it.
//
// This package contains type definitions only. The hlsl catalog and all other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Only two numeric kinds exist: int32 and uint32
//   - Signatures render kinds only, never directions
//   - Overload identity is content-addressed (canonical JSON + SHA-256)
//   - All JSON tags use snake_case
package ir
