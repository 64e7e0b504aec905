// Package seqio reads FASTA and FASTQ records, returning normalised sequences ready for sketching
package seqio

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"
)

// Format is the sequence file format
type Format int

const (
	// FASTA format
	FASTA Format = iota
	// FASTQ format
	FASTQ
)

// Extensions lists the file extensions accepted for sequence files (gzipped versions are also accepted)
var Extensions = []string{"fasta", "fna", "fa", "fastq", "fq"}

// Record is a single sequence
type Record struct {
	ID  string
	Seq []byte
}

// FormatFromPath guesses the file format from the extension, ignoring any .gz
func FormatFromPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz")))
	if ext == ".fastq" || ext == ".fq" {
		return FASTQ
	}
	return FASTA
}

// Open returns a reader for a sequence file, transparently handling gzip
func Open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	}
	gz, err := gzip.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, errors.Wrapf(err, "could not decompress %v", path)
	}
	return &gzipFile{Reader: gz, fh: fh}, nil
}

// gzipFile closes both the gzip stream and the underlying file
type gzipFile struct {
	*gzip.Reader
	fh *os.File
}

func (gzipFile *gzipFile) Close() error {
	if err := gzipFile.Reader.Close(); err != nil {
		gzipFile.fh.Close()
		return err
	}
	return gzipFile.fh.Close()
}

// ReadFile returns every record in a FASTA/FASTQ file
func ReadFile(path string) ([]*Record, error) {
	fh, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	records, err := Read(fh, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %v", path)
	}
	return records, nil
}

// Read returns every record from a reader
func Read(r io.Reader, format Format) ([]*Record, error) {
	records := []*Record{}
	err := Stream(r, format, func(record *Record) error {
		records = append(records, record)
		return nil
	})
	return records, err
}

// Stream calls fn on each record as it is read, stopping at the first error
func Stream(r io.Reader, format Format, fn func(*Record) error) error {
	var reader bioseqio.Reader
	switch format {
	case FASTQ:
		reader = fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNAredundant, alphabet.Sanger))
	default:
		reader = fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))
	}
	scanner := bioseqio.NewScanner(reader)
	for scanner.Next() {
		var record *Record
		switch s := scanner.Seq().(type) {
		case *linear.Seq:
			record = newRecord(s.Name(), lettersToBytes(s.Seq))
		case *linear.QSeq:
			letters := make([]byte, len(s.Seq))
			for i, ql := range s.Seq {
				letters[i] = byte(ql.L)
			}
			record = newRecord(s.Name(), letters)
		default:
			return errors.Errorf("unexpected sequence type: %T", s)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return scanner.Error()
}

// newRecord upper cases the sequence and removes alignment gaps
func newRecord(id string, seq []byte) *Record {
	seq = bytes.ToUpper(seq)
	seq = bytes.Replace(seq, []byte("-"), nil, -1)
	return &Record{ID: id, Seq: seq}
}

func lettersToBytes(letters alphabet.Letters) []byte {
	seq := make([]byte, len(letters))
	for i, l := range letters {
		seq[i] = byte(l)
	}
	return seq
}
