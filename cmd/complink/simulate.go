package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/linecodec"
	"github.com/sarchlab/complink/compression/trace"
	"github.com/sarchlab/complink/compression/vsc"
	"github.com/sarchlab/complink/report"
	"github.com/sarchlab/complink/timing/link"
	"github.com/sarchlab/complink/timing/memory"
	"github.com/sarchlab/complink/timing/traffic"
)

var simulateFlags struct {
	cycles      uint64
	drainCycles uint64
	seed        int64
	issueRate   float64
	writeRatio  float64
	footprint   int
	memoryBytes uint64
	data        string
	escapes     bool
	profileCSV  string
	linkCSV     string
	sqlitePath  string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive synthetic memory traffic through a link.",
	Long: `simulate issues random reads and writes from every memory ` +
		`sub-partition requester, runs the link for the given number of ` +
		`cycles, drains it, and prints the link statistics and the codec ` +
		`profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulate(cmd.OutOrStdout())
	},
}

func init() {
	f := simulateCmd.Flags()
	f.Uint64Var(&simulateFlags.cycles, "cycles", 100000,
		"Number of cycles to issue traffic")
	f.Uint64Var(&simulateFlags.drainCycles, "drain-cycles", 1000000,
		"Maximum number of cycles to drain the link")
	f.Int64Var(&simulateFlags.seed, "seed", 1, "Random seed")
	f.Float64Var(&simulateFlags.issueRate, "issue-rate", 0.25,
		"Probability that a requester issues in a cycle")
	f.Float64Var(&simulateFlags.writeRatio, "write-ratio", 0.3,
		"Fraction of requests that are writes")
	f.IntVar(&simulateFlags.footprint, "footprint", 4096,
		"Number of 128-byte blocks touched")
	f.Uint64Var(&simulateFlags.memoryBytes, "memory", 1<<24,
		"Backing memory size in bytes")
	f.StringVar(&simulateFlags.data, "data", string(traffic.DataPointer),
		"Block content: zero, small, pointer or random")
	f.BoolVar(&simulateFlags.escapes, "escapes", false,
		"Print the escaped values of the stream compressor")
	f.StringVar(&simulateFlags.profileCSV, "profile-csv", "",
		"Write the compressor profile to a CSV file")
	f.StringVar(&simulateFlags.linkCSV, "link-csv", "",
		"Write the link statistics to a CSV file")
	f.StringVar(&simulateFlags.sqlitePath, "sqlite", "",
		"Append the results to a SQLite database")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kind, err := traffic.ParseDataKind(simulateFlags.data)
	if err != nil {
		return err
	}

	footprintBytes := uint64(simulateFlags.footprint) * compression.BlockSize
	if simulateFlags.footprint <= 0 || footprintBytes > simulateFlags.memoryBytes {
		return fmt.Errorf("footprint of %d blocks does not fit in %d bytes",
			simulateFlags.footprint, simulateFlags.memoryBytes)
	}

	codec, err := cfg.BuildCodec()
	if err != nil {
		return err
	}

	if rec, ok := codec.(*trace.Recorder); ok {
		atexit.Register(func() {
			if err := rec.Close(); err != nil {
				log.Printf("closing stream dumps: %v", err)
			}
		})
	}

	backing := memory.NewBacking(simulateFlags.memoryBytes)

	m, err := cfg.BuildMemoryLink(codec, backing)
	if err != nil {
		return err
	}

	d := traffic.NewDriver(m, backing, cfg.DnFlitsPerCycle, cfg.UpFlitsPerCycle,
		traffic.WithSeed(simulateFlags.seed),
		traffic.WithIssueRate(simulateFlags.issueRate),
		traffic.WithWriteRatio(simulateFlags.writeRatio),
		traffic.WithFootprint(simulateFlags.footprint),
		traffic.WithDataKind(kind),
	)

	d.RunCycles(simulateFlags.cycles)
	if !d.Drain(simulateFlags.drainCycles) {
		log.Printf("link did not drain, %d requests outstanding",
			d.Stats().Outstanding())
	}

	s := d.Stats()
	fmt.Fprintf(out, "cycles %d reads %d/%d writes %d/%d\n",
		s.Cycles, s.ReadsCompleted, s.ReadsIssued,
		s.WritesCompleted, s.WritesIssued)
	m.PrintStats(out)

	var sections []vsc.ReportSection
	if cfg.Compressed() {
		sections = printCodecReport(out, codec, simulateFlags.escapes)
	}

	return exportSimulation(sections, m.Stats())
}

// printCodecReport prints what the codec learned about the traffic and
// returns the profile sections of a stream compressor.
func printCodecReport(
	out io.Writer,
	codec compression.Codec,
	escapes bool,
) []vsc.ReportSection {
	switch c := codec.(type) {
	case *vsc.Compressor:
		sections := c.Report()
		vsc.WriteReport(out, sections)
		if escapes {
			c.DumpEscapes(out)
		}

		return sections
	case compression.LineCodecAdapter:
		if bps, ok := c.LineCodec.(*linecodec.BPS); ok {
			bps.Histogram().WriteSummary(out, "bps")
			bps.DumpProfile(out)
		}
	case *trace.Recorder:
		fmt.Fprintf(out, "recorded %d streams\n", len(c.Streams()))
		if err := c.Err(); err != nil {
			log.Printf("stream dumps: %v", err)
		}
	}

	return nil
}

func exportSimulation(
	sections []vsc.ReportSection,
	stats []link.Statistics,
) error {
	if simulateFlags.profileCSV != "" && sections != nil {
		if err := writeFile(simulateFlags.profileCSV, func(w io.Writer) error {
			return report.WriteProfileCSV(w, sections)
		}); err != nil {
			return err
		}
	}

	if simulateFlags.linkCSV != "" {
		if err := writeFile(simulateFlags.linkCSV, func(w io.Writer) error {
			return report.WriteLinkCSV(w, stats)
		}); err != nil {
			return err
		}
	}

	if simulateFlags.sqlitePath != "" {
		db, err := report.NewSQLiteWriter(simulateFlags.sqlitePath)
		if err != nil {
			return err
		}

		db.WriteProfile(sections)
		db.WriteLinkStats(stats)
		atexit.Register(func() {
			if err := db.Close(); err != nil {
				log.Printf("writing %s: %v", simulateFlags.sqlitePath, err)
			}
		})
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
