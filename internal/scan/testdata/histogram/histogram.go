package histogram

import "github.com/roach88/shade/hlsl"

// Bins counts each value into one of 16 buckets shared by the group.
func Bins(values []uint32, bins []uint32, id int) {
	v := values[id]
	hlsl.InterlockedAdd(&bins[v%16], 1)
	hlsl.GroupMemoryBarrierWithGroupSync()
}
