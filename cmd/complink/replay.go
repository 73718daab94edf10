package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/trace"
	"github.com/sarchlab/complink/config"
)

var replayFlags struct {
	codec   string
	cap     uint32
	dist    bool
	escapes bool
}

var replayCmd = &cobra.Command{
	Use:   "replay [dir]",
	Short: "Compress recorded stream dumps with a codec.",
	Long: `replay reads the stream files a dump codec recorded into dir, ` +
		`feeds every block through the selected codec in stream order, and ` +
		`prints the compressed line length summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.codec, "codec", "",
		"Codec to replay with (vsc, bps, bp, cpack); defaults to the config")
	f.Uint32Var(&replayFlags.cap, "cap", 1024,
		"Largest line length kept exactly in the distribution")
	f.BoolVar(&replayFlags.dist, "dist", false,
		"Print the line length distribution")
	f.BoolVar(&replayFlags.escapes, "escapes", false,
		"Print the escaped values of the stream compressor")

	rootCmd.AddCommand(replayCmd)
}

func runReplay(out io.Writer, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if replayFlags.codec != "" {
		cfg.Codec = config.CodecKind(replayFlags.codec)
	}

	if cfg.Codec == config.CodecDump {
		return fmt.Errorf("cannot replay with the %s codec", cfg.Codec)
	}

	codec, err := cfg.BuildCodec()
	if err != nil {
		return err
	}

	hist := compression.NewHistogram(replayFlags.cap)

	n, err := trace.ReplayDir(dir, codec, hist)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "replayed %d lines from %s\n", n, dir)
	hist.WriteSummary(out, string(cfg.Codec))
	if replayFlags.dist {
		hist.WriteDistribution(out)
	}

	printCodecReport(out, codec, replayFlags.escapes)

	return nil
}
