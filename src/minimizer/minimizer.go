// Package minimizer contains the sketching engine: k-mer encoding, an invertible hash finalizer and a sliding-window minimizer queue.
package minimizer

import "math"

// HASHWIDTH is the number of bits in a k-mer hash
const HASHWIDTH uint = 32

// Sentinel is the hash given to any k-mer containing a non-ACGT base, it is never reported as a minimizer
const Sentinel uint32 = math.MaxUint32

// invalidBase marks a byte in seqNT2table which is not one of the four canonical bases
const invalidBase uint8 = 4

// seqNT2table is used to convert "ACGT" to 0123, everything else is 4
var seqNT2table = [256]uint8{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}

// EncodeBase returns the 2-bit code for a base, ok is false for anything other than A, C, G or T
func EncodeBase(base byte) (code uint8, ok bool) {
	code = seqNT2table[base]
	return code, code != invalidBase
}

// EncodeKmer folds a k-mer into a big-endian base-4 integer
// k-mers longer than 16 bases wrap, keeping the 16 right-most bases
func EncodeKmer(kmer []byte) (uint32, bool) {
	var key uint32
	for _, base := range kmer {
		code, ok := EncodeBase(base)
		if !ok {
			return 0, false
		}
		key = key<<2 | uint32(code)
	}
	return key, true
}

// Mask returns a value with the low bits set for a hash of the given width (1-32 bits)
func Mask(bits uint) uint32 {
	if bits >= HASHWIDTH {
		return math.MaxUint32
	}
	return uint32(1)<<bits - 1
}

// Mix is an invertible integer hash (lifted from minimap2's hash64), every step is masked to the hash width
func Mix(key, mask uint32) uint32 {
	key = (^key + (key << 21)) & mask
	key = key ^ key>>24
	key = ((key + (key << 3)) + (key << 8)) & mask
	key = key ^ key>>14
	key = ((key + (key << 2)) + (key << 4)) & mask
	key = key ^ key>>28
	key = (key + (key << 31)) & mask
	return key
}

// HashKmer encodes and mixes a k-mer, returning the Sentinel if the k-mer contains an invalid base
func HashKmer(kmer []byte) uint32 {
	key, ok := EncodeKmer(kmer)
	if !ok {
		return Sentinel
	}
	return Mix(key, Mask(HASHWIDTH))
}
