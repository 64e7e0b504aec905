// Package report writes match results out in a choice of formats
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kshedden/gonpy"
	"github.com/pkg/errors"
	"github.com/segmentio/objconv/json"
	"github.com/segmentio/objconv/msgpack"
	"github.com/will-rowe/mzmatch/src/match"
)

// Format is a report output format
type Format string

// the supported report formats
const (
	TSV     Format = "tsv"
	JSON    Format = "json"
	MSGPACK Format = "msgpack"
	NPY     Format = "npy"
)

// Formats lists the supported report formats
var Formats = []Format{TSV, JSON, MSGPACK, NPY}

// ParseFormat returns the Format for a name
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if strings.ToLower(name) == string(format) {
			return format, nil
		}
	}
	return "", errors.Errorf("unsupported report format: %q (choose from %v)", name, Formats)
}

// Row is a single query/reference position pair
type Row struct {
	Query     string `objconv:"query"`
	Reference string `objconv:"reference"`
	QueryPos  int    `objconv:"query_pos"`
	RefPos    int    `objconv:"ref_pos"`
}

// Flatten converts results into report rows, keeping the order of the results, hits and matches
func Flatten(results []*match.Result) []Row {
	rows := []Row{}
	for _, result := range results {
		for _, hit := range result.Hits {
			for _, m := range hit.Matches {
				rows = append(rows, Row{
					Query:     result.Query,
					Reference: hit.Reference,
					QueryPos:  m.QueryPos,
					RefPos:    m.RefPos,
				})
			}
		}
	}
	return rows
}

// Write writes the rows to w in the requested format
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case TSV:
		return writeTSV(w, rows)
	case JSON:
		b, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case MSGPACK:
		b, err := msgpack.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case NPY:
		return writeNPY(w, rows)
	default:
		return errors.Errorf("unsupported report format: %q", format)
	}
}

func writeTSV(w io.Writer, rows []Row) error {
	bufw := bufio.NewWriter(w)
	fmt.Fprintln(bufw, "query\treference\tquery_pos\tref_pos")
	for _, row := range rows {
		fmt.Fprintf(bufw, "%s\t%s\t%d\t%d\n", row.Query, row.Reference, row.QueryPos, row.RefPos)
	}
	return bufw.Flush()
}

// writeNPY writes an n x 2 matrix of query and reference positions, the names are not kept
func writeNPY(w io.Writer, rows []Row) error {
	data := make([]int64, 0, 2*len(rows))
	for _, row := range rows {
		data = append(data, int64(row.QueryPos), int64(row.RefPos))
	}
	bufw := bufio.NewWriter(w)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return err
	}
	npw.Shape = []int{len(rows), 2}
	if err := npw.WriteInt64(data); err != nil {
		return err
	}
	return bufw.Flush()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
