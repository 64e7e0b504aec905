package pipeline

import (
	"github.com/pkg/errors"
	"github.com/will-rowe/mzmatch/src/match"
	"github.com/will-rowe/mzmatch/src/minimizer"
	"github.com/will-rowe/mzmatch/src/report"
)

// Info stores the runtime information
type Info struct {
	Version    string
	NumProc    int
	Profiling  bool
	KmerSize   int
	WindowSize int
	MinScore   float64 // lowest normalised score for a best hit
	MinHits    int     // fewest shared minimizers for a query to be assigned a best hit
	Format     report.Format
	index      *match.Index
}

// Check is a method to check the sketching parameters before any sequence is read
func (Info *Info) Check() error {
	if Info.KmerSize < 1 || Info.WindowSize < 1 {
		return errors.Wrapf(minimizer.ErrInvalidParameters, "k-mer size (%d) and window size (%d) must be positive", Info.KmerSize, Info.WindowSize)
	}
	if Info.MinScore < 0 || Info.MinHits < 0 {
		return errors.Errorf("minimum score (%v) and minimum hits (%d) can't be negative", Info.MinScore, Info.MinHits)
	}
	if _, err := report.ParseFormat(string(Info.Format)); err != nil {
		return err
	}
	return nil
}

// AttachIndex is a method to attach a reference index to the runtime
func (Info *Info) AttachIndex(index *match.Index) {
	Info.index = index
}

// GetIndex is a method to return the reference index attached to the runtime
func (Info *Info) GetIndex() *match.Index {
	return Info.index
}
