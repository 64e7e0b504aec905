package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/segmentio/objconv/msgpack"
	"github.com/will-rowe/mzmatch/src/match"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type reportSuite struct{}

var _ = check.Suite(&reportSuite{})

var results = []*match.Result{
	{Query: "read1", Hits: []match.Hit{
		{Reference: "ref1", Matches: match.Matches{{QueryPos: 10, RefPos: 0}, {QueryPos: 20, RefPos: 3}}},
		{Reference: "ref2", Matches: match.Matches{{QueryPos: 4, RefPos: 100}}},
	}},
	{Query: "read2"},
	{Query: "read3", Hits: []match.Hit{
		{Reference: "ref1", Matches: match.Matches{{QueryPos: 1, RefPos: 2}}},
	}},
}

func (s *reportSuite) TestParseFormat(c *check.C) {
	format, err := ParseFormat("TSV")
	c.Assert(err, check.IsNil)
	c.Check(format, check.Equals, TSV)
	format, err = ParseFormat("npy")
	c.Assert(err, check.IsNil)
	c.Check(format, check.Equals, NPY)
	_, err = ParseFormat("sam")
	c.Check(err, check.ErrorMatches, `unsupported report format.*`)
}

func (s *reportSuite) TestFlatten(c *check.C) {
	rows := Flatten(results)
	c.Check(rows, check.DeepEquals, []Row{
		{"read1", "ref1", 10, 0},
		{"read1", "ref1", 20, 3},
		{"read1", "ref2", 4, 100},
		{"read3", "ref1", 1, 2},
	})
	c.Check(Flatten(nil), check.HasLen, 0)
}

func (s *reportSuite) TestTSV(c *check.C) {
	var buf bytes.Buffer
	c.Assert(Write(&buf, TSV, Flatten(results)), check.IsNil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	c.Assert(lines, check.HasLen, 5)
	c.Check(lines[0], check.Equals, "query\treference\tquery_pos\tref_pos")
	c.Check(lines[3], check.Equals, "read1\tref2\t4\t100")
}

func (s *reportSuite) TestJSON(c *check.C) {
	var buf bytes.Buffer
	c.Assert(Write(&buf, JSON, Flatten(results)[:1]), check.IsNil)
	c.Check(buf.String(), check.Matches, `(?s)\[\{.*"query":\s*"read1".*"ref_pos":\s*0.*\}\]\n`)
}

func (s *reportSuite) TestMsgpack(c *check.C) {
	var buf bytes.Buffer
	rows := Flatten(results)
	c.Assert(Write(&buf, MSGPACK, rows), check.IsNil)
	var decoded []Row
	c.Assert(msgpack.Unmarshal(buf.Bytes(), &decoded), check.IsNil)
	c.Check(decoded, check.DeepEquals, rows)
}

func (s *reportSuite) TestNPY(c *check.C) {
	var buf bytes.Buffer
	c.Assert(Write(&buf, NPY, Flatten(results)), check.IsNil)
	npy, err := gonpy.NewReader(&buf)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{4, 2})
	data, err := npy.GetInt64()
	c.Assert(err, check.IsNil)
	c.Check(data, check.DeepEquals, []int64{10, 0, 20, 3, 4, 100, 1, 2})
}

func (s *reportSuite) TestUnknownFormat(c *check.C) {
	var buf bytes.Buffer
	c.Check(Write(&buf, Format("bam"), nil), check.NotNil)
}
