package pipeline

/*
 this part of the pipeline will read the reference sequences and sketch them into an index
*/

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/will-rowe/mzmatch/src/match"
	"github.com/will-rowe/mzmatch/src/minimizer"
	"github.com/will-rowe/mzmatch/src/seqio"
)

// SketchRecords sketches each record in a go routine, limited to numProc at a time
//
// the sketches and errors are returned in record order, a record which can't be sketched has a nil sketch and an error
func SketchRecords(records []*seqio.Record, k, w, numProc int) ([]minimizer.Sketch, []error) {
	if numProc < 1 {
		numProc = 1
	}
	var wg sync.WaitGroup
	tokens := make(chan struct{}, numProc)
	sketches := make([]minimizer.Sketch, len(records))
	sketchErrs := make([]error, len(records))
	for i, record := range records {
		wg.Add(1)
		tokens <- struct{}{}
		go func(i int, record *seqio.Record) {
			defer wg.Done()
			defer func() { <-tokens }()
			sketch, err := minimizer.BuildSketch(record.Seq, k, w)
			if err != nil {
				sketchErrs[i] = errors.Wrapf(err, "could not sketch %q", record.ID)
				return
			}
			sketches[i] = sketch
		}(i, record)
	}
	wg.Wait()
	return sketches, sketchErrs
}

// BuildIndex reads the reference file(s), sketches each record and attaches the resulting index to the runtime info
//
// records too short for the k-mer and window size are skipped, the index keeps the references in file order
func BuildIndex(info *Info, referenceFiles []string) (*match.Index, error) {
	index, err := match.NewIndex(info.KmerSize, info.WindowSize)
	if err != nil {
		return nil, err
	}
	records := []*seqio.Record{}
	for _, file := range referenceFiles {
		fileRecords, err := seqio.ReadFile(file)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}

	// sketch the references concurrently, then add them to the index in file order
	sketches, sketchErrs := SketchRecords(records, index.KmerSize, index.WindowSize, info.NumProc)
	skipped := 0
	for i, record := range records {
		if sketchErrs[i] != nil {
			log.Warnf("\tskipping reference: %v", sketchErrs[i])
			skipped++
			continue
		}
		if err := index.AddSketch(&match.Reference{Name: record.ID, Length: len(record.Seq), Sketch: sketches[i]}); err != nil {
			return nil, err
		}
	}
	if index.Len() == 0 {
		return nil, errors.New("could not sketch any reference sequences")
	}
	log.Printf("\tnumber of references sketched: %d", index.Len())
	if skipped != 0 {
		log.Printf("\tnumber of references skipped: %d", skipped)
	}
	logIndexStats(index)
	info.AttachIndex(index)
	return index, nil
}

// logIndexStats logs the number of distinct minimizers, the minimizer density and the sketch size of each reference
func logIndexStats(index *match.Index) {
	totalLength, totalMinimizers := 0, 0
	refs := index.References()
	for _, ref := range refs {
		totalLength += ref.Length
		totalMinimizers += ref.SketchSize
	}
	log.Printf("\tnumber of distinct minimizers: %d", index.NumMinimizers())
	log.Printf("\tnumber of minimizers per kb: %.2f", 1000*float64(totalMinimizers)/float64(totalLength))
	for _, ref := range refs {
		log.Printf("\t\t%v\t%d", ref.Name, ref.SketchSize)
	}
}
