package pipeline

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/will-rowe/mzmatch/src/minimizer"
	"github.com/will-rowe/mzmatch/src/report"
	"github.com/will-rowe/mzmatch/src/seqio"
)

var (
	kmerSize   = 7
	windowSize = 5
	refFasta   = `>blaB10 partial
ATGAAAGGATTAAAAGGGCTATTGGTTCTGGCTTTAGGCTTTACAGGACTACAGGTTTTTGGGCAACAGAACCCTGATATTAAAATTGAAAAATTAAAAGATAATTTATACGTCTATACAACCTATAATACCTTCAAAGGAACTAAATATGCGG
>short
ACGT
>polyC
CCCCCCCCCCCCCCCCCCCCCCCCCCCCCC
`
	queryFasta = `>read1
GGCTTTACAGGACTACAGGTTTTTGGGCAACAGAACC
>read2
TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT
>read3
ACG
>read4
ATAATTTATACGTCTATACAACCTATAATACCTTCAAAGGAAC
`
)

// define some dummy components to run a test pipeline
type ComponentA struct {
	input  []int
	output chan int
}

func NewComponentA(i []int) *ComponentA {
	return &ComponentA{input: i, output: make(chan int)}
}

func (ComponentA *ComponentA) Run() {
	defer close(ComponentA.output)
	for _, input := range ComponentA.input {
		ComponentA.output <- input
	}
}

type ComponentB struct {
	input    chan int
	addition int
	results  []int
}

func NewComponentB(i int) *ComponentB {
	return &ComponentB{addition: i}
}

func (ComponentB *ComponentB) Connect(previous *ComponentA) {
	ComponentB.input = previous.output
}

func (ComponentB *ComponentB) Run() {
	results := []int{}
	for input := range ComponentB.input {
		results = append(results, (input + ComponentB.addition))
	}
	ComponentB.results = results
}

// tests
func TestPipeline(t *testing.T) {
	inputValues := []int{1, 2, 3, 4}
	expectedOutput := []int{11, 12, 13, 14}
	// create the processes
	a := NewComponentA(inputValues)
	b := NewComponentB(10)
	// create the pipeline
	newPipeline := NewPipeline()
	// add the processes and connect them
	newPipeline.AddProcesses(a, b)
	b.Connect(a)
	if newPipeline.GetNumProcesses() != 2 {
		t.Fatal("did not add correct number of processes to pipeline")
	}
	// run the pipeline
	newPipeline.Run()
	// once the pipeline is done, there should be results in the final component
	if len(expectedOutput) != len(b.results) {
		t.Fatal("pipeline did not produce expected output")
	}
	for i, val := range b.results {
		if val != expectedOutput[i] {
			t.Fatal("pipeline did not produce expected output")
		}
	}
}

func writeTestFiles(t *testing.T) (string, string, string) {
	dir, err := ioutil.TempDir("", "mzmatch-pipeline")
	if err != nil {
		t.Fatal(err)
	}
	ref := filepath.Join(dir, "ref.fasta")
	qry := filepath.Join(dir, "query.fasta")
	if err := ioutil.WriteFile(ref, []byte(refFasta), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(qry, []byte(queryFasta), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, ref, qry
}

func TestInfoCheck(t *testing.T) {
	info := &Info{KmerSize: 0, WindowSize: windowSize, Format: report.TSV}
	if errors.Cause(info.Check()) != minimizer.ErrInvalidParameters {
		t.Fatal("should fault as k must be > 0")
	}
	info = &Info{KmerSize: kmerSize, WindowSize: windowSize, Format: report.Format("sam")}
	if info.Check() == nil {
		t.Fatal("should fault on an unknown format")
	}
	info = &Info{KmerSize: kmerSize, WindowSize: windowSize, MinScore: -0.1, Format: report.TSV}
	if info.Check() == nil {
		t.Fatal("should fault on a negative minimum score")
	}
	info = &Info{KmerSize: kmerSize, WindowSize: windowSize, MinHits: -1, Format: report.TSV}
	if info.Check() == nil {
		t.Fatal("should fault on negative minimum hits")
	}
}

func TestBuildIndex(t *testing.T) {
	dir, ref, _ := writeTestFiles(t)
	defer os.RemoveAll(dir)
	info := &Info{NumProc: 2, KmerSize: kmerSize, WindowSize: windowSize, Format: report.TSV}
	index, err := BuildIndex(info, []string{ref})
	if err != nil {
		t.Fatal(err)
	}
	if info.GetIndex() != index {
		t.Fatal("index was not attached to the runtime info")
	}
	// the short reference is skipped
	refs := index.References()
	if len(refs) != 2 || refs[0].Name != "blaB10" || refs[1].Name != "polyC" {
		t.Fatalf("unexpected references in index: %d", len(refs))
	}
	if refs[1].SketchSize != 1 || refs[0].SketchSize != len(refs[0].Sketch.Hashes()) {
		t.Fatal("reference sketch sizes were not set")
	}
	if index.NumMinimizers() != refs[0].SketchSize+1 {
		t.Fatalf("unexpected number of distinct minimizers: %d", index.NumMinimizers())
	}
	if _, err := BuildIndex(info, []string{filepath.Join(dir, "missing.fa")}); err == nil {
		t.Fatal("should fault on a missing reference file")
	}
}

func TestSketchRecords(t *testing.T) {
	records := []*seqio.Record{
		{ID: "read1", Seq: []byte("GGCTTTACAGGACTACAGGTTTTTGGGCAACAGAACC")},
		{ID: "read2", Seq: []byte("ACG")},
		{ID: "read3", Seq: []byte("CCCCCCCCCCCCCCCCCCCC")},
	}
	sketches, sketchErrs := SketchRecords(records, kmerSize, windowSize, 2)
	if len(sketches) != 3 || len(sketchErrs) != 3 {
		t.Fatal("should return a sketch and an error slot per record")
	}
	for i, record := range records {
		if i == 1 {
			continue
		}
		if sketchErrs[i] != nil {
			t.Fatal(sketchErrs[i])
		}
		expected, err := minimizer.BuildSketch(record.Seq, kmerSize, windowSize)
		if err != nil {
			t.Fatal(err)
		}
		if len(sketches[i]) != len(expected) {
			t.Fatalf("sketch of %v is out of order", record.ID)
		}
	}
	if errors.Cause(sketchErrs[1]) != minimizer.ErrInvalidParameters || sketches[1] != nil {
		t.Fatal("read2 is too short to sketch")
	}
}

// runMatchPipeline builds the index and streams the query file through the matching pipeline
func runMatchPipeline(t *testing.T, info *Info, ref, qry string) (*QueryMapper, *ResultCollector, *bytes.Buffer) {
	t.Helper()
	if _, err := BuildIndex(info, []string{ref}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	matchPipeline := NewPipeline()
	queryStreamer := NewQueryStreamer(info)
	queryMapper := NewQueryMapper(info)
	resultCollector := NewResultCollector(info, &buf)
	queryStreamer.Connect([]string{qry})
	queryMapper.Connect(queryStreamer)
	resultCollector.Connect(queryMapper)
	matchPipeline.AddProcesses(queryStreamer, queryMapper, resultCollector)
	if matchPipeline.GetNumProcesses() != 3 {
		t.Fatal("wrong number of processes in pipeline")
	}
	matchPipeline.Run()
	if err := queryStreamer.Err(); err != nil {
		t.Fatal(err)
	}
	if err := resultCollector.Err(); err != nil {
		t.Fatal(err)
	}
	return queryMapper, resultCollector, &buf
}

func TestMatchPipeline(t *testing.T) {
	dir, ref, qry := writeTestFiles(t)
	defer os.RemoveAll(dir)
	info := &Info{NumProc: 3, KmerSize: kmerSize, WindowSize: windowSize, Format: report.TSV}
	queryMapper, resultCollector, buf := runMatchPipeline(t, info, ref, qry)

	// check the stats
	stats := queryMapper.CollectStats()
	if stats[0] != 4 {
		t.Fatalf("expected 4 queries, got %d", stats[0])
	}
	if stats[1] != 2 {
		t.Fatalf("expected 2 matched queries, got %d", stats[1])
	}
	if stats[2] != 1 {
		t.Fatalf("expected 1 query to be too short, got %d", stats[2])
	}
	if stats[3] != 2 {
		t.Fatalf("expected 2 queries with a best hit, got %d", stats[3])
	}
	hitTotals := resultCollector.CollectHitTotals()
	if len(hitTotals) != 1 || hitTotals["blaB10"] != 2 {
		t.Fatalf("unexpected hit totals: %v", hitTotals)
	}

	// results come back in input order
	results := resultCollector.CollectOutput()
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, name := range []string{"read1", "read2", "read3", "read4"} {
		if results[i].Query != name {
			t.Fatalf("result %d should be %v, got %v", i, name, results[i].Query)
		}
	}
	if len(results[0].Hits) != 1 || results[0].Hits[0].Reference != "blaB10" {
		t.Fatal("read1 should only match blaB10")
	}
	if results[0].Best == nil || results[0].Best.Reference != "blaB10" || results[0].Best.Score <= 0 {
		t.Fatal("blaB10 should be the best hit for read1")
	}
	if len(results[1].Hits) != 0 {
		t.Fatal("read2 should not match")
	}
	if results[2].Err == nil {
		t.Fatal("read3 is too short and should carry an error")
	}

	// check the report
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1+results[0].NumMatches()+results[3].NumMatches() {
		t.Fatalf("report has the wrong number of lines: %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "read1\tblaB10\t") {
		t.Fatalf("unexpected first report line: %v", lines[1])
	}
}

func TestMatchPipelineThresholds(t *testing.T) {
	dir, ref, qry := writeTestFiles(t)
	defer os.RemoveAll(dir)
	info := &Info{NumProc: 2, KmerSize: kmerSize, WindowSize: windowSize, MinHits: 1000, Format: report.TSV}
	queryMapper, resultCollector, _ := runMatchPipeline(t, info, ref, qry)
	stats := queryMapper.CollectStats()
	if stats[1] != 2 || stats[3] != 0 {
		t.Fatalf("queries should match without being assigned a best hit: %v", stats)
	}
	if len(resultCollector.CollectHitTotals()) != 0 {
		t.Fatal("unassigned queries should not count towards the hit totals")
	}
	for _, result := range resultCollector.CollectOutput() {
		if result.Best != nil {
			t.Fatalf("%v should not have a best hit", result.Query)
		}
	}
}

func TestQueryStreamerMissingFile(t *testing.T) {
	info := &Info{NumProc: 1, KmerSize: kmerSize, WindowSize: windowSize, Format: report.TSV}
	queryStreamer := NewQueryStreamer(info)
	queryStreamer.Connect([]string{"missing.fa"})
	queryStreamer.Run()
	if queryStreamer.Err() == nil {
		t.Fatal("should fault on a missing query file")
	}
}
