package minimizer

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrInvalidParameters is returned when a sketch can't be built for the given k, w and sequence length
var ErrInvalidParameters = errors.New("invalid sketch parameters")

// Sketch is the sorted, deduplicated set of minimizers for a sequence
type Sketch []Candidate

// methods to satisfy the sort interface
func (s Sketch) Len() int           { return len(s) }
func (s Sketch) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s Sketch) Less(i, j int) bool { return s[i].Less(s[j]) }

// CheckParameters returns ErrInvalidParameters if no full window of w k-mers fits in a sequence of length seqLen
func CheckParameters(seqLen, k, w int) error {
	if k < 1 || w < 1 {
		return errors.Wrapf(ErrInvalidParameters, "k-mer size (%d) and window size (%d) must be positive", k, w)
	}
	if k+w > seqLen {
		return errors.Wrapf(ErrInvalidParameters, "sequence length (%d) is shorter than k-mer size + window size (%d)", seqLen, k+w)
	}
	return nil
}

// BuildSketch slides a window of w k-mers along a sequence and collects every change in the window minimum
func BuildSketch(sequence []byte, k, w int) (Sketch, error) {
	if err := CheckParameters(len(sequence), k, w); err != nil {
		return nil, err
	}
	queue := NewQueue(w)
	mask := Mask(HASHWIDTH)
	kmerMask := Mask(uint(2 * k))

	// roughly 2/(w+1) of the k-mers are minimizers in random sequence
	sketch := make(Sketch, 0, 2*len(sequence)/(w+1)+1)

	// roll the 2-bit encoding along the sequence, counting bases since the last invalid one
	var key uint32
	validRun := 0
	for i, base := range sequence {
		code, ok := EncodeBase(base)
		if ok {
			key = (key<<2 | uint32(code)) & kmerMask
			validRun++
		} else {
			key = 0
			validRun = 0
		}
		pos := i - k + 1
		if pos < 0 {
			continue
		}
		hash := Sentinel
		if validRun >= k {
			hash = Mix(key, mask)
		}
		if min, changed := queue.Insert(hash, pos); changed {
			sketch = append(sketch, min)
		}
	}
	sketch.sortAndDedup()
	return sketch, nil
}

// sortAndDedup sorts a sketch by hash and removes identical candidates in place
func (s *Sketch) sortAndDedup() {
	sort.Sort(*s)
	deduped := (*s)[:0]
	for i, candidate := range *s {
		if i != 0 && candidate == deduped[len(deduped)-1] {
			continue
		}
		deduped = append(deduped, candidate)
	}
	*s = deduped
}

// Hashes returns the distinct hash values held in a sketch
func (s Sketch) Hashes() []uint32 {
	hashes := make([]uint32, 0, len(s))
	for i, candidate := range s {
		if i != 0 && candidate.Hash == s[i-1].Hash {
			continue
		}
		hashes = append(hashes, candidate.Hash)
	}
	return hashes
}

// Lookup returns the candidates in a sorted sketch which have the given hash
func (s Sketch) Lookup(hash uint32) Sketch {
	i := sort.Search(len(s), func(i int) bool { return s[i].Hash >= hash })
	j := i
	for j < len(s) && s[j].Hash == hash {
		j++
	}
	return s[i:j]
}
