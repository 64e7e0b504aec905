// Package pipeline contains a streaming pipeline implementation based on the Gopher Academy article by S. Lampa - Patterns for composable concurrent pipelines in Go (https://blog.gopheracademy.com/advent-2015/composable-pipelines-improvements/)
package pipeline

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/will-rowe/mzmatch/src/match"
	"github.com/will-rowe/mzmatch/src/report"
	"github.com/will-rowe/mzmatch/src/seqio"
)

// BUFFERSIZE is the size of the buffer used by the pipeline channels
const BUFFERSIZE int = 64

// process is the interface used by pipeline
type process interface {
	Run()
}

// Pipeline is the base type, which takes any types that satisfy the process interface
type Pipeline struct {
	processes []process
}

// NewPipeline is the pipeline constructor
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddProcess is a method to add a single process to the pipeline
func (Pipeline *Pipeline) AddProcess(proc process) {
	Pipeline.processes = append(Pipeline.processes, proc)
}

// AddProcesses is a method to add multiple processes to the pipeline
func (Pipeline *Pipeline) AddProcesses(procs ...process) {
	for _, proc := range procs {
		Pipeline.AddProcess(proc)
	}
}

// Run is a method that starts the pipeline
func (Pipeline *Pipeline) Run() {
	// each pipeline process is run in a Go routines, except the last process which is run in the foreground to control the flow
	for i, process := range Pipeline.processes {
		if i < len(Pipeline.processes)-1 {
			go process.Run()
		} else {
			process.Run()
		}
	}
}

// GetNumProcesses is a method to return the number of processes registered in a pipeline
func (Pipeline *Pipeline) GetNumProcesses() int {
	return len(Pipeline.processes)
}

// query is a sequence waiting to be matched, tagged with its place in the input
type query struct {
	order  int
	record *seqio.Record
}

// queryResult is a match result, tagged with the place of the query in the input
type queryResult struct {
	order  int
	result *match.Result
}

// QueryStreamer is a pipeline process that streams query sequences from file(s)
type QueryStreamer struct {
	info   *Info
	input  []string
	output chan *query
	err    error
}

// NewQueryStreamer is the constructor
func NewQueryStreamer(info *Info) *QueryStreamer {
	return &QueryStreamer{info: info, output: make(chan *query, BUFFERSIZE)}
}

// Connect is the method to connect the QueryStreamer to some data source
func (proc *QueryStreamer) Connect(input []string) {
	proc.input = input
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *QueryStreamer) Run() {
	defer close(proc.output)
	order := 0
	for _, file := range proc.input {
		fh, err := seqio.Open(file)
		if err != nil {
			proc.err = err
			return
		}
		err = seqio.Stream(fh, seqio.FormatFromPath(file), func(record *seqio.Record) error {
			proc.output <- &query{order: order, record: record}
			order++
			return nil
		})
		fh.Close()
		if err != nil {
			proc.err = errors.Wrapf(err, "could not read %v", file)
			return
		}
	}
}

// Err returns any error encountered while streaming, it should be checked once the pipeline has finished
func (proc *QueryStreamer) Err() error {
	return proc.err
}

// QueryMapper is a pipeline process that sketches queries and matches them against the reference index
type QueryMapper struct {
	info   *Info
	input  chan *query
	output chan *queryResult
	boss   *theBoss
}

// NewQueryMapper is the constructor
func NewQueryMapper(info *Info) *QueryMapper {
	return &QueryMapper{info: info, output: make(chan *queryResult, BUFFERSIZE)}
}

// Connect is the method to connect the QueryMapper to the output of a QueryStreamer
func (proc *QueryMapper) Connect(previous *QueryStreamer) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *QueryMapper) Run() {
	defer close(proc.output)
	proc.boss = mapQueries(proc.info, proc.input, proc.output)
}

// CollectStats returns the number of queries received, matched, those which could not be sketched and those assigned a best hit
func (proc *QueryMapper) CollectStats() [4]int {
	if proc.boss == nil {
		return [4]int{}
	}
	return [4]int{proc.boss.receivedCount, proc.boss.matchedCount, proc.boss.unsketchedCount, proc.boss.classifiedCount}
}

// ResultCollector is a pipeline process that puts the results back in input order and writes the report
type ResultCollector struct {
	info    *Info
	input   chan *queryResult
	writer    io.Writer
	results   []*match.Result
	hitTotals map[string]int
	err       error
}

// NewResultCollector is the constructor, the report is written to w (or STDOUT if w is nil)
func NewResultCollector(info *Info, w io.Writer) *ResultCollector {
	if w == nil {
		w = os.Stdout
	}
	return &ResultCollector{info: info, writer: w}
}

// Connect is the method to connect the ResultCollector to the output of a QueryMapper
func (proc *ResultCollector) Connect(previous *QueryMapper) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *ResultCollector) Run() {
	collected := []*queryResult{}
	for qr := range proc.input {
		collected = append(collected, qr)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].order < collected[j].order })
	proc.results = make([]*match.Result, len(collected))
	proc.hitTotals = make(map[string]int)
	for i, qr := range collected {
		proc.results[i] = qr.result
		if qr.result.Err != nil {
			log.Warnf("\tskipped query: %v", qr.result.Err)
			continue
		}
		if qr.result.Best == nil {
			continue
		}
		for _, hit := range qr.result.Hits {
			if hit.Score > proc.info.MinScore {
				proc.hitTotals[hit.Reference]++
			}
		}
	}
	rows := report.Flatten(proc.results)
	log.Printf("\tnumber of matches: %d", len(rows))
	proc.err = report.Write(proc.writer, proc.info.Format, rows)
}

// CollectOutput returns the results, in query input order
func (proc *ResultCollector) CollectOutput() []*match.Result {
	return proc.results
}

// CollectHitTotals returns, for each reference, the number of assigned queries that scored above the minimum score against it
func (proc *ResultCollector) CollectHitTotals() map[string]int {
	return proc.hitTotals
}

// Err returns any error encountered while writing the report
func (proc *ResultCollector) Err() error {
	return proc.err
}
