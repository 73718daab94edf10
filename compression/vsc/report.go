package vsc

import (
	"fmt"
	"io"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/pattern"
)

// EscapeName labels the escape row of a report.
const EscapeName = "ESC"

// ReportRow is one pattern line of the profile report.
type ReportRow struct {
	Section    string  `csv:"section"`
	Name       string  `csv:"pattern"`
	Size       uint32  `csv:"size"`
	Count      uint64  `csv:"count"`
	Percent    float64 `csv:"percent"`
	Cumulative float64 `csv:"cumulative"`
}

// ReportSection summarizes one slice of the traffic.
type ReportSection struct {
	Title       string
	TotalWords  uint64
	Rows        []ReportRow
	AverageBits float64
}

// Report builds the profile report: read streams, write streams, and all
// streams in match order, then all streams in pattern-ID order.
func (c *Compressor) Report() []ReportSection {
	sorted := c.catalog.Patterns()

	byID := make([]pattern.Pattern, c.catalog.Len())
	for id := range byID {
		byID[id] = c.catalog.MustLookup(id)
	}

	return []ReportSection{
		c.section("TotalRD", sorted, ReadStreams),
		c.section("TotalWR", sorted, WriteStreams),
		c.section("Total", sorted, nil),
		c.section("TotalByID", byID, nil),
	}
}

func (c *Compressor) section(
	title string,
	patterns []pattern.Pattern,
	filter func(compression.StreamID) bool,
) ReportSection {
	prof := c.Profile(filter)
	sec := ReportSection{
		Title:      title,
		TotalWords: prof.WordCount,
	}

	var accumCount, accumBits uint64
	for _, p := range patterns {
		count := prof.PatternCount(p.ID)
		accumCount += count
		accumBits += uint64(p.Size) * count

		sec.Rows = append(sec.Rows, ReportRow{
			Section:    title,
			Name:       p.Name,
			Size:       p.Size,
			Count:      count,
			Percent:    percent(count, prof.WordCount),
			Cumulative: percent(accumCount, prof.WordCount),
		})
	}

	accumCount += prof.EscapeCount
	accumBits += EscapeSize * prof.EscapeCount
	sec.Rows = append(sec.Rows, ReportRow{
		Section:    title,
		Name:       EscapeName,
		Size:       EscapeSize,
		Count:      prof.EscapeCount,
		Percent:    percent(prof.EscapeCount, prof.WordCount),
		Cumulative: percent(accumCount, prof.WordCount),
	})

	if prof.WordCount > 0 {
		sec.AverageBits = float64(accumBits) / float64(prof.WordCount)
	}

	return sec
}

func percent(n, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(n) * 100 / float64(total)
}

// WriteReport prints report sections as tab-separated text.
func WriteReport(w io.Writer, sections []ReportSection) {
	for _, sec := range sections {
		fmt.Fprintf(w, "%s\t\t\t\t%16d\n", sec.Title, sec.TotalWords)
		for _, r := range sec.Rows {
			fmt.Fprintf(w, "%s\t%d\t%16d\t%8.6f\t%8.6f\n",
				r.Name, r.Size, r.Count, r.Percent, r.Cumulative)
		}
		fmt.Fprintf(w, "Average word\t\t\t\t%8.6f\n", sec.AverageBits)
	}
}

// DumpProfile prints the full profile report.
func (c *Compressor) DumpProfile(w io.Writer) {
	WriteReport(w, c.Report())
}

// DumpEscapes prints the escaped words of all streams seen more than twice,
// least frequent first.
func (c *Compressor) DumpEscapes(w io.Writer) {
	prof := c.Profile(nil)

	fmt.Fprintf(w, "Escape  \t%16d\t%8.6f\n",
		prof.EscapeCount, percent(prof.EscapeCount, prof.WordCount))

	for _, e := range prof.FrequentEscapes(2) {
		fmt.Fprintf(w, "%016x\t%16d\t%8.6f\n",
			e.Word, e.Count, percent(e.Count, prof.WordCount))
	}
}
