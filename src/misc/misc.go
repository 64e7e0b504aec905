// Package misc contains some helper functions used by the mzmatch commands
package misc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// ErrorCheck is a function to throw error to the log and exit the program
func ErrorCheck(err error) {
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// StartLogging is a function to start the log and return the file handle
func StartLogging(logFile string) (*os.File, error) {
	logPath := strings.Split(logFile, "/")
	joinedLogPath := strings.Join(logPath[:len(logPath)-1], "/")
	if len(logPath) > 1 {
		if _, err := os.Stat(joinedLogPath); os.IsNotExist(err) {
			if err := os.MkdirAll(joinedLogPath, 0700); err != nil {
				return nil, errors.Wrap(err, "can't create specified log directory")
			}
		}
	}
	return os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
}

// CheckRequiredFlags is a function to check for required flags (cobra MarkFlagRequired doesn't check persistent flags)
func CheckRequiredFlags(flags *pflag.FlagSet) error {
	requiredError := false
	flagName := ""
	flags.VisitAll(func(flag *pflag.Flag) {
		requiredAnnotation := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
		if len(requiredAnnotation) == 0 {
			return
		}
		flagRequired := requiredAnnotation[0] == "true"
		if flagRequired && !flag.Changed {
			requiredError = true
			flagName = flag.Name
		}
	})
	if requiredError {
		return fmt.Errorf("required flag `%v` has not been set", flagName)
	}
	return nil
}

// CheckFile is a function to check that a file can be read
func CheckFile(file string) error {
	fi, err := os.Stat(file)
	if err != nil {
		return errors.Wrapf(err, "can't open %v", file)
	}
	if fi.IsDir() {
		return fmt.Errorf("%v is a directory, not a file", file)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%v is empty", file)
	}
	return nil
}

// CheckExt is a function to check the extensions of a file (ignoring any .gz)
func CheckExt(file string, exts []string) error {
	ext := strings.TrimPrefix(filepath.Ext(strings.TrimSuffix(file, ".gz")), ".")
	for _, allowed := range exts {
		if strings.EqualFold(ext, allowed) {
			return nil
		}
	}
	return fmt.Errorf("file does not have recognised extension (%v): %v", exts, file)
}
