package minimizer

import (
	"testing"
)

var (
	kmerSize   = 4
	windowSize = 2
	sequence   = []byte("ACGTACGTACGT")
	sequence2  = []byte("ACTGCGTGCGTGAAACGTGCACGTGACGTG")
)

func TestEncodeBase(t *testing.T) {
	seen := make(map[uint8]byte)
	for _, base := range []byte("ACGT") {
		code, ok := EncodeBase(base)
		if !ok {
			t.Fatalf("'%c' should be a valid base", base)
		}
		if code > 3 {
			t.Fatalf("'%c' encoded outside of 2 bits: %d", base, code)
		}
		if other, ok := seen[code]; ok {
			t.Fatalf("'%c' and '%c' share the code %d", base, other, code)
		}
		seen[code] = base
	}
	for _, base := range []byte("NRYacgtn-*. \n") {
		if _, ok := EncodeBase(base); ok {
			t.Fatalf("'%c' should not be a valid base", base)
		}
	}
}

func TestEncodeKmer(t *testing.T) {
	key, ok := EncodeKmer([]byte("ACGT"))
	if !ok {
		t.Fatal("ACGT should encode")
	}
	// 0*64 + 1*16 + 2*4 + 3
	if key != 27 {
		t.Fatalf("incorrect encoding for ACGT: %d", key)
	}
	if _, ok := EncodeKmer([]byte("ACNT")); ok {
		t.Fatal("a k-mer with an N should not encode")
	}
}

// every 6-mer should get its own encoding
func TestEncodeKmerInjective(t *testing.T) {
	k := 6
	seen := make(map[uint32]string)
	kmer := make([]byte, k)
	for i := 0; i < 1<<uint(2*k); i++ {
		for j := 0; j < k; j++ {
			kmer[k-1-j] = "ACGT"[(i>>uint(2*j))&3]
		}
		key, ok := EncodeKmer(kmer)
		if !ok {
			t.Fatalf("%s should encode", kmer)
		}
		if other, ok := seen[key]; ok {
			t.Fatalf("%s and %s share the encoding %d", kmer, other, key)
		}
		seen[key] = string(kmer)
	}
	if len(seen) != 1<<uint(2*k) {
		t.Fatalf("expected %d encodings, got %d", 1<<uint(2*k), len(seen))
	}
}

func TestMask(t *testing.T) {
	if Mask(8) != 0xff {
		t.Fatalf("incorrect 8 bit mask: %x", Mask(8))
	}
	if Mask(31) != 0x7fffffff {
		t.Fatalf("incorrect 31 bit mask: %x", Mask(31))
	}
	if Mask(32) != 0xffffffff {
		t.Fatalf("incorrect 32 bit mask: %x", Mask(32))
	}
}

// the finalizer should permute the values of a small hash width
func TestMixBijective(t *testing.T) {
	for _, bits := range []uint{1, 2, 8, 12} {
		mask := Mask(bits)
		seen := make([]bool, 1<<bits)
		for key := uint32(0); key <= mask; key++ {
			hv := Mix(key, mask)
			if hv > mask {
				t.Fatalf("%d bit hash of %d is out of range: %d", bits, key, hv)
			}
			if seen[hv] {
				t.Fatalf("%d bit hash collision on %d", bits, hv)
			}
			seen[hv] = true
		}
	}
}

func TestHashKmer(t *testing.T) {
	if HashKmer([]byte("ACGT")) == Sentinel {
		t.Fatal("a valid k-mer should not hash to the sentinel")
	}
	if HashKmer([]byte("ACGT")) != HashKmer([]byte("ACGT")) {
		t.Fatal("hashing should be deterministic")
	}
	for _, kmer := range []string{"NCGT", "ACGN", "acgt", "AC-T"} {
		if HashKmer([]byte(kmer)) != Sentinel {
			t.Fatalf("%s should hash to the sentinel", kmer)
		}
	}
	// this 15-mer mixes to the sentinel, so it can never be picked as a minimizer
	if Mix(0x18ef1407, Mask(32)) != Sentinel {
		t.Fatal("0x18ef1407 should mix to the sentinel")
	}
	if HashKmer([]byte("CGATGTTACCAAACT")) != Sentinel {
		t.Fatal("CGATGTTACCAAACT should hash to the sentinel")
	}
	// poly-A encodes to 0, it shouldn't stay at the bottom of the hash range
	if HashKmer([]byte("AAAAAAAA")) == 0 {
		t.Fatal("poly-A was not mixed")
	}
}
