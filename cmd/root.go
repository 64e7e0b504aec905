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
	"os"
	"runtime"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/will-rowe/mzmatch/src/misc"
	"github.com/will-rowe/mzmatch/src/version"
)

// the command line arguments
var (
	cfgFile    string  // config file to read default settings from
	proc       *int    // number of processors to use
	profiling  *bool   // create profile for go pprof
	logFile    *string // name of the log file
	kmerSize   *int    // size of k-mer
	windowSize *int    // number of consecutive k-mers in a minimizer window
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mzmatch",
	Short: "Find shared minimizers between query and reference sequences",
	Long: `Find shared minimizers between query and reference sequences.

mzmatch sketches sequences by sliding a window of w k-mers along them and keeping the
k-mer with the minimum hash in each window. The minimizers of the query sequences are
then looked up in the reference sketches to report approximate shared substrings.`,
	Version: version.VERSION,
}

// Execute adds all child commands to the root command and sets flags appropriately
// this is called by main.main() and only needs to happen once to the RootCmd
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// init the persistent command line arguments and bind them to the config
func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mzmatch.yaml)")
	proc = RootCmd.PersistentFlags().IntP("processors", "p", runtime.NumCPU(), "number of processors to use")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile mzmatch using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "", "filename for log file, default = STDERR")
	kmerSize = RootCmd.PersistentFlags().IntP("kmerSize", "k", 15, "size of k-mer (at most 16 for a lossless encoding)")
	windowSize = RootCmd.PersistentFlags().IntP("windowSize", "w", 10, "number of consecutive k-mers in each minimizer window")
	for _, key := range []string{"processors", "kmerSize", "windowSize"} {
		misc.ErrorCheck(viper.BindPFlag(key, RootCmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in the config file and any MZMATCH_ environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".mzmatch")
	}
	viper.SetEnvPrefix("mzmatch")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			misc.ErrorCheck(fmt.Errorf("could not read config file: %v", err))
		}
	}
}

// startRun sets up profiling and logging for a sub-command, the returned function should be deferred
func startRun(subcommand string) func() {
	stoppers := []func(){}

	// set up profiling
	if *profiling {
		p := profile.Start(profile.ProfilePath("./"))
		stoppers = append(stoppers, p.Stop)
	}

	// start logging
	if *logFile != "" {
		logFH, err := misc.StartLogging(*logFile)
		misc.ErrorCheck(err)
		log.SetOutput(logFH)
		stoppers = append(stoppers, func() { logFH.Close() })
	} else {
		log.SetOutput(os.Stderr)
	}
	log.Printf("mzmatch (version %s)", version.VERSION)
	log.Printf("starting the %s subcommand", subcommand)
	if used := viper.ConfigFileUsed(); used != "" {
		log.Printf("using config file: %v", used)
	}
	return func() {
		for i := len(stoppers) - 1; i >= 0; i-- {
			stoppers[i]()
		}
	}
}

// sketchParamCheck is a function to check the sketching parameters and set the number of processors
func sketchParamCheck() error {
	*kmerSize = viper.GetInt("kmerSize")
	*windowSize = viper.GetInt("windowSize")
	*proc = viper.GetInt("processors")
	if *kmerSize < 1 || *windowSize < 1 {
		return fmt.Errorf("k-mer size and window size must be positive")
	}
	if *kmerSize > 16 {
		log.Warnf("\tk-mer size %d exceeds 16, only the last 16 bases of each k-mer are hashed", *kmerSize)
	}
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	return nil
}

// checkSeqFiles is a function to check a list of sequence files
func checkSeqFiles(files []string, exts []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no sequence files supplied")
	}
	for _, file := range files {
		if err := misc.CheckFile(file); err != nil {
			return err
		}
		if err := misc.CheckExt(file, exts); err != nil {
			return err
		}
	}
	return nil
}
