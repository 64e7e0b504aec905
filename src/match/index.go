package match

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/will-rowe/mzmatch/src/minimizer"
)

const (
	// DefaultMinScore is the lowest normalised score a best hit can have
	DefaultMinScore = 0.3
	// DefaultMinHits is the fewest shared minimizers (summed over all references) a query needs to be assigned
	DefaultMinHits = 10
)

// Reference is a named reference sequence and its sketch
type Reference struct {
	Name       string
	Length     int
	Sketch     minimizer.Sketch
	SketchSize int // number of distinct minimizer hashes, set when the reference is added to an index
}

// Hit holds the matches between a query and one reference
type Hit struct {
	Reference string
	Matches   Matches
	Shared    int     // distinct query minimizers found in the reference
	Score     float64 // shared minimizers, scaled by the reference minimizer density and the query length
}

// Result holds everything found for one query sequence
type Result struct {
	Query      string
	Length     int
	SketchSize int
	Hits       []Hit
	Best       *Hit  // set by Classify
	Err        error // set if the query couldn't be sketched
}

// NumMatches returns the total number of matches across all references
func (r *Result) NumMatches() int {
	total := 0
	for _, hit := range r.Hits {
		total += len(hit.Matches)
	}
	return total
}

// Classify picks the highest scoring hit as the best hit for the query
//
// no best hit is assigned if its score is below minScore or if fewer than minHits minimizers are shared across all references
func (r *Result) Classify(minScore float64, minHits int) *Hit {
	r.Best = nil
	shared := 0
	for i := range r.Hits {
		shared += r.Hits[i].Shared
		if r.Best == nil || r.Hits[i].Score > r.Best.Score {
			r.Best = &r.Hits[i]
		}
	}
	if r.Best == nil || r.Best.Score < minScore || shared < minHits {
		r.Best = nil
	}
	return r.Best
}

// Index holds the sketches of one or more reference sequences, all built with the same k-mer and window size
type Index struct {
	KmerSize   int
	WindowSize int
	references []*Reference
	lookup     map[string]int
	lock       sync.RWMutex
}

// NewIndex is the constructor for an Index
func NewIndex(k, w int) (*Index, error) {
	if k < 1 || w < 1 {
		return nil, errors.Wrapf(minimizer.ErrInvalidParameters, "k-mer size (%d) and window size (%d) must be positive", k, w)
	}
	return &Index{
		KmerSize:   k,
		WindowSize: w,
		lookup:     make(map[string]int),
	}, nil
}

// AddReference sketches a reference sequence and adds it to the index, it is safe to call concurrently
func (idx *Index) AddReference(name string, sequence []byte) error {
	sketch, err := minimizer.BuildSketch(sequence, idx.KmerSize, idx.WindowSize)
	if err != nil {
		return errors.Wrapf(err, "could not sketch reference %q", name)
	}
	return idx.AddSketch(&Reference{Name: name, Length: len(sequence), Sketch: sketch})
}

// AddSketch adds a sketched reference to the index, setting its SketchSize
func (idx *Index) AddSketch(ref *Reference) error {
	idx.lock.Lock()
	defer idx.lock.Unlock()
	if _, ok := idx.lookup[ref.Name]; ok {
		return errors.Errorf("duplicate reference name: %q", ref.Name)
	}
	ref.SketchSize = len(ref.Sketch.Hashes())
	idx.lookup[ref.Name] = len(idx.references)
	idx.references = append(idx.references, ref)
	return nil
}

// GetReference returns the named reference
func (idx *Index) GetReference(name string) (*Reference, bool) {
	idx.lock.RLock()
	defer idx.lock.RUnlock()
	i, ok := idx.lookup[name]
	if !ok {
		return nil, false
	}
	return idx.references[i], true
}

// References returns the references in the order they were added
func (idx *Index) References() []*Reference {
	idx.lock.RLock()
	defer idx.lock.RUnlock()
	refs := make([]*Reference, len(idx.references))
	copy(refs, idx.references)
	return refs
}

// Len returns the number of references in the index
func (idx *Index) Len() int {
	idx.lock.RLock()
	defer idx.lock.RUnlock()
	return len(idx.references)
}

// NumMinimizers returns the number of distinct minimizer hashes across all references
func (idx *Index) NumMinimizers() int {
	idx.lock.RLock()
	defer idx.lock.RUnlock()
	seen := make(map[uint32]struct{})
	for _, ref := range idx.references {
		for _, hash := range ref.Sketch.Hashes() {
			seen[hash] = struct{}{}
		}
	}
	return len(seen)
}

// Query sketches a query sequence and matches it against every reference in the index
//
// references without any matches are left out of the result
func (idx *Index) Query(name string, sequence []byte) *Result {
	result := &Result{Query: name, Length: len(sequence)}
	sketch, err := minimizer.BuildSketch(sequence, idx.KmerSize, idx.WindowSize)
	if err != nil {
		result.Err = errors.Wrapf(err, "could not sketch query %q", name)
		return result
	}
	result.SketchSize = len(sketch)
	for _, ref := range idx.References() {
		matches := MatchSketches(ref.Sketch, sketch)
		if len(matches) == 0 {
			continue
		}
		shared := SharedHashes(ref.Sketch, sketch)
		result.Hits = append(result.Hits, Hit{
			Reference: ref.Name,
			Matches:   matches,
			Shared:    shared,
			Score:     float64(ref.Length) / float64(ref.SketchSize) * float64(shared) / float64(len(sequence)),
		})
	}
	return result
}
