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
	"bufio"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/will-rowe/mzmatch/src/misc"
	"github.com/will-rowe/mzmatch/src/pipeline"
	"github.com/will-rowe/mzmatch/src/seqio"
)

// the command line arguments
var (
	sketchInputs *[]string // list of sequence files to sketch
	sketchOut    *string   // file to write the sketches to
)

// sketchCmd is used by cobra
var sketchCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Print the minimizer sketch of each sequence",
	Long:  `Print the minimizer sketch (hash and k-mer start position) of each sequence in the input files`,
	Run: func(cmd *cobra.Command, args []string) {
		runSketch()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// init the command line arguments
func init() {
	sketchInputs = sketchCmd.Flags().StringSliceP("input", "i", []string{}, "FASTA/FASTQ file(s) to sketch - required")
	sketchOut = sketchCmd.Flags().StringP("out", "o", "", "file to write the sketches to, default = STDOUT")
	sketchCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(sketchCmd)
}

// runSketch is the main function for the sketch sub-command
func runSketch() {
	defer startRun("sketch")()

	// check the supplied files and then log some stuff
	log.Printf("checking parameters...")
	misc.ErrorCheck(sketchParamCheck())
	misc.ErrorCheck(checkSeqFiles(*sketchInputs, seqio.Extensions))
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tk-mer size: %d", *kmerSize)
	log.Printf("\twindow size: %d", *windowSize)
	for _, file := range *sketchInputs {
		log.Printf("\tinput file: %v", file)
	}

	// open the output
	var out io.Writer = os.Stdout
	if *sketchOut != "" {
		fh, err := os.Create(*sketchOut)
		misc.ErrorCheck(err)
		defer fh.Close()
		out = fh
	}
	bufw := bufio.NewWriter(out)
	defer bufw.Flush()
	fmt.Fprintln(bufw, "sequence\thash\tpos")

	// sketch each record in a go routine, printing them in input order
	log.Printf("sketching sequences...")
	sketchCount, skipped := 0, 0
	for _, file := range *sketchInputs {
		records, err := seqio.ReadFile(file)
		misc.ErrorCheck(err)
		sketches, sketchErrs := pipeline.SketchRecords(records, *kmerSize, *windowSize, *proc)
		for i, record := range records {
			if sketchErrs[i] != nil {
				log.Warnf("\tskipping sequence: %v", sketchErrs[i])
				skipped++
				continue
			}
			sketchCount++
			for _, candidate := range sketches[i] {
				fmt.Fprintf(bufw, "%s\t%d\t%d\n", record.ID, candidate.Hash, candidate.Pos)
			}
		}
	}
	log.Printf("\tnumber of sequences sketched: %d", sketchCount)
	log.Printf("\tnumber of sequences skipped: %d", skipped)
	if sketchCount == 0 {
		bufw.Flush()
		misc.ErrorCheck(fmt.Errorf("could not sketch any sequences"))
	}
	log.Println("finished")
}
