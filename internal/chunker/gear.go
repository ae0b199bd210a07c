package chunker

// gearTable is the 256-entry lookup table used by the gear-hash family of
// chunkers (FastCDC in both its classic and 2020 forms). Each byte value
// maps to a fixed pseudo-random 64-bit constant; the table only needs to be
// well-distributed, not cryptographically secure, so it is generated once
// at init time with a fixed seed rather than hand-transcribed.
var gearTable [256]uint64

func init() {
	var state uint64 = 0x9e3779b97f4a7c15
	for i := range gearTable {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z = z ^ (z >> 31)
		gearTable[i] = z
	}
}
