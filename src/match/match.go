// Package match finds shared minimizers between a query sketch and an index of reference sketches
package match

import (
	"sort"

	"github.com/will-rowe/mzmatch/src/minimizer"
)

// Match records that the minimizer at QueryPos shares its hash with the reference minimizer at RefPos
type Match struct {
	QueryPos int
	RefPos   int
}

// Matches is a slice of Match, ordered by query position then reference position
type Matches []Match

// methods to satisfy the sort interface
func (m Matches) Len() int      { return len(m) }
func (m Matches) Swap(i, j int) { m[i], m[j] = m[j], m[i] }
func (m Matches) Less(i, j int) bool {
	if m[i].QueryPos != m[j].QueryPos {
		return m[i].QueryPos < m[j].QueryPos
	}
	return m[i].RefPos < m[j].RefPos
}

// MatchSketches looks up every query minimizer in the (hash sorted) reference sketch
//
// all reference minimizers sharing a hash are reported, an empty result is not an error
func MatchSketches(reference, query minimizer.Sketch) Matches {
	matches := Matches{}
	for _, candidate := range query {
		for _, hit := range reference.Lookup(candidate.Hash) {
			matches = append(matches, Match{QueryPos: candidate.Pos, RefPos: hit.Pos})
		}
	}
	sort.Sort(matches)
	return matches
}

// SharedHashes counts the distinct query hashes that are also in the reference sketch
func SharedHashes(reference, query minimizer.Sketch) int {
	shared := 0
	for _, hash := range query.Hashes() {
		if len(reference.Lookup(hash)) != 0 {
			shared++
		}
	}
	return shared
}
