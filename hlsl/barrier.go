package hlsl

// AllMemoryBarrier blocks until all memory accesses in the group have completed.
func AllMemoryBarrier() {
	fail(Intrinsic{Op: OpAllMemoryBarrier})
}

// AllMemoryBarrierWithGroupSync blocks until all memory accesses have
// completed and every thread in the group has reached this call.
func AllMemoryBarrierWithGroupSync() {
	fail(Intrinsic{Op: OpAllMemoryBarrierWithGroupSync})
}

// DeviceMemoryBarrier blocks until all device memory accesses have completed.
func DeviceMemoryBarrier() {
	fail(Intrinsic{Op: OpDeviceMemoryBarrier})
}

// DeviceMemoryBarrierWithGroupSync blocks until all device memory accesses
// have completed and every thread in the group has reached this call.
func DeviceMemoryBarrierWithGroupSync() {
	fail(Intrinsic{Op: OpDeviceMemoryBarrierWithGroupSync})
}

// GroupMemoryBarrier blocks until all group shared memory accesses have completed.
func GroupMemoryBarrier() {
	fail(Intrinsic{Op: OpGroupMemoryBarrier})
}

// GroupMemoryBarrierWithGroupSync blocks until all group shared memory
// accesses have completed and every thread in the group has reached this call.
func GroupMemoryBarrierWithGroupSync() {
	fail(Intrinsic{Op: OpGroupMemoryBarrierWithGroupSync})
}
