// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/will-rowe/mzmatch/src/match"
	"github.com/will-rowe/mzmatch/src/misc"
	"github.com/will-rowe/mzmatch/src/pipeline"
	"github.com/will-rowe/mzmatch/src/report"
	"github.com/will-rowe/mzmatch/src/seqio"
	"github.com/will-rowe/mzmatch/src/version"
)

// the command line arguments
var (
	references *[]string // list of reference sequence files to index
	queries    *[]string // list of query sequence files to match
	outFile    *string   // file to write the report to
	format     *string   // report format
	minScore   *float64  // lowest normalised score for a best hit
	minHits    *int      // fewest shared minimizers for a query to be assigned a best hit
)

// matchCmd is used by cobra
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match query minimizers against reference sketches",
	Long: `Sketch the reference and query sequences, then report every query minimizer that shares its hash with a reference minimizer.

Each query is also assigned to its best scoring reference. The score of a reference is the number of
shared minimizers, scaled by the reference length over its minimizer count and divided by the query length.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMatch()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// init the command line arguments
func init() {
	references = matchCmd.Flags().StringSliceP("reference", "r", []string{}, "reference FASTA/FASTQ file(s) - required")
	queries = matchCmd.Flags().StringSliceP("query", "q", []string{}, "query FASTA/FASTQ file(s) - required")
	outFile = matchCmd.Flags().StringP("out", "o", "", "file to write the match report to, default = STDOUT")
	format = matchCmd.Flags().String("format", string(report.TSV), fmt.Sprintf("report format %v", report.Formats))
	minScore = matchCmd.Flags().Float64("minScore", match.DefaultMinScore, "lowest normalised score needed to assign a query to its best reference")
	minHits = matchCmd.Flags().Int("minHits", match.DefaultMinHits, "fewest shared minimizers needed to assign a query to its best reference")
	matchCmd.MarkFlagRequired("reference")
	matchCmd.MarkFlagRequired("query")
	for _, key := range []string{"format", "minScore", "minHits"} {
		misc.ErrorCheck(viper.BindPFlag(key, matchCmd.Flags().Lookup(key)))
	}
	RootCmd.AddCommand(matchCmd)
}

// matchParamCheck is a function to check user supplied parameters
func matchParamCheck() (report.Format, error) {
	if err := sketchParamCheck(); err != nil {
		return "", err
	}
	if err := checkSeqFiles(*references, seqio.Extensions); err != nil {
		return "", err
	}
	if err := checkSeqFiles(*queries, seqio.Extensions); err != nil {
		return "", err
	}
	*minScore = viper.GetFloat64("minScore")
	*minHits = viper.GetInt("minHits")
	return report.ParseFormat(viper.GetString("format"))
}

// runMatch is the main function for the match sub-command
func runMatch() {
	defer startRun("match")()

	// check the supplied files and then log some stuff
	log.Printf("checking parameters...")
	reportFormat, err := matchParamCheck()
	misc.ErrorCheck(err)
	info := &pipeline.Info{
		Version:    version.VERSION,
		NumProc:    *proc,
		Profiling:  *profiling,
		KmerSize:   *kmerSize,
		WindowSize: *windowSize,
		MinScore:   *minScore,
		MinHits:    *minHits,
		Format:     reportFormat,
	}
	misc.ErrorCheck(info.Check())
	log.Printf("\tprocessors: %d", info.NumProc)
	log.Printf("\tk-mer size: %d", info.KmerSize)
	log.Printf("\twindow size: %d", info.WindowSize)
	log.Printf("\tminimum score: %.2f", info.MinScore)
	log.Printf("\tminimum hits: %d", info.MinHits)
	log.Printf("\treport format: %v", info.Format)
	for _, file := range *references {
		log.Printf("\treference file: %v", file)
	}
	for _, file := range *queries {
		log.Printf("\tquery file: %v", file)
	}

	// sketch the references
	log.Printf("sketching references...")
	index, err := pipeline.BuildIndex(info, *references)
	misc.ErrorCheck(err)

	// open the output
	var out io.Writer = os.Stdout
	if *outFile != "" {
		fh, err := os.Create(*outFile)
		misc.ErrorCheck(err)
		defer fh.Close()
		out = fh
	}

	// create the pipeline
	log.Printf("initialising matching pipeline...")
	matchPipeline := pipeline.NewPipeline()

	// initialise processes
	log.Printf("\tinitialising the processes")
	queryStreamer := pipeline.NewQueryStreamer(info)
	queryMapper := pipeline.NewQueryMapper(info)
	resultCollector := pipeline.NewResultCollector(info, out)

	// connect the pipeline processes
	log.Printf("\tconnecting data streams")
	queryStreamer.Connect(*queries)
	queryMapper.Connect(queryStreamer)
	resultCollector.Connect(queryMapper)

	// submit each process to the pipeline and run it
	matchPipeline.AddProcesses(queryStreamer, queryMapper, resultCollector)
	log.Printf("\tnumber of processes added to the matching pipeline: %d", matchPipeline.GetNumProcesses())
	log.Printf("matching queries...")
	matchPipeline.Run()
	misc.ErrorCheck(queryStreamer.Err())
	misc.ErrorCheck(resultCollector.Err())

	// log some stuff
	stats := queryMapper.CollectStats()
	if stats[0] == 0 {
		misc.ErrorCheck(fmt.Errorf("no query sequences received"))
	}
	log.Printf("\tnumber of queries received: %d", stats[0])
	log.Printf("\tnumber of queries with matches: %d", stats[1])
	log.Printf("\tnumber of queries too short to sketch: %d", stats[2])
	log.Printf("\tnumber of queries assigned a best hit: %d", stats[3])
	log.Printf("hit statistics:")
	hitTotals := resultCollector.CollectHitTotals()
	for _, ref := range index.References() {
		log.Printf("\t%v\t%d", ref.Name, hitTotals[ref.Name])
	}
	if *outFile != "" {
		log.Printf("\tsaved report to \"%v\"", *outFile)
	}
	log.Println("finished")
}
