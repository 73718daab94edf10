// Package report exports compressor profiles and link statistics for offline
// analysis, as CSV files or as rows in a SQLite database.
package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/sarchlab/complink/compression/vsc"
	"github.com/sarchlab/complink/timing/link"
)

// ProfileRows flattens report sections into rows.
func ProfileRows(sections []vsc.ReportSection) []vsc.ReportRow {
	var rows []vsc.ReportRow
	for _, s := range sections {
		rows = append(rows, s.Rows...)
	}

	return rows
}

// WriteProfileCSV writes every row of the report sections as CSV.
func WriteProfileCSV(w io.Writer, sections []vsc.ReportSection) error {
	rows := ProfileRows(sections)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write profile CSV: %w", err)
	}

	return nil
}

// WriteLinkCSV writes one CSV row per link direction.
func WriteLinkCSV(w io.Writer, stats []link.Statistics) error {
	if err := gocsv.Marshal(&stats, w); err != nil {
		return fmt.Errorf("failed to write link CSV: %w", err)
	}

	return nil
}
