package core

// ScaleDuty maps an 8-bit duty value onto the peripheral's native range
// (value * nativeMax / 255, rounded toward zero).
func ScaleDuty(value uint8, nativeMax uint32) uint32 {
	return uint32(uint64(value) * uint64(nativeMax) / 255)
}

// NativeMax returns the largest duty value for a counter of the given width.
func NativeMax(resolutionBits uint8) uint32 {
	return uint32(1)<<resolutionBits - 1
}
