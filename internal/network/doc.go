// Package network allocates isolated IPv4 subnets for fuzzing iterations.
//
// Every iteration index maps to its own /28 inside 10.0.0.0/8. The index is
// treated as a 20-bit number:
//
//	bits 19..12 -> second octet
//	bits 11..4  -> third octet
//	bits 3..0   -> block; fourth octet = block * 16
//
// which yields 2^20 disjoint blocks. Host addresses are the block base plus
// an offset in 1..15. The core network emulator takes offset 3 and the base
// station offset 5:
//
//	alloc, err := network.Allocate(42)
//	// alloc.Subnet   = 10.0.2.160/28
//	// alloc.Core     = 10.0.2.163
//	// alloc.BaseStation = 10.0.2.165
//
// Allocation is a pure function of its inputs; indexes and offsets outside
// the scheme return ErrAddressSpaceExhausted or ErrOffsetOutOfRange.
package network
