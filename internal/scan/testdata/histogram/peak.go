package histogram

import gpu "github.com/roach88/shade/hlsl"

// Peak records the largest signed sample and returns the previous peak.
func Peak(samples []int32, peak []int32, id int) int32 {
	var prev int32
	gpu.InterlockedMaxOriginal(&peak[0], samples[id], &prev)
	return prev
}
