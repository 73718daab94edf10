package config

import (
	"fmt"
	"os"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/linecodec"
	"github.com/sarchlab/complink/compression/trace"
	"github.com/sarchlab/complink/compression/vsc"
	"github.com/sarchlab/complink/timing/link"
)

// BuildCodec creates the codec the configuration selects. The dump codec
// creates its directory.
func (c *Config) BuildCodec() (compression.Codec, error) {
	switch c.Codec {
	case CodecVSC:
		return vsc.NewCompressor(
			vsc.WithHistoryDepth(c.HistoryDepth),
			vsc.WithOpcodeBits(c.OpcodeBits),
		), nil
	case CodecBPS:
		return compression.LineCodecAdapter{LineCodec: linecodec.NewBPS()}, nil
	case CodecBP:
		return compression.LineCodecAdapter{LineCodec: linecodec.NewBP()}, nil
	case CodecCPack:
		return compression.LineCodecAdapter{LineCodec: linecodec.NewCPack()}, nil
	case CodecDump:
		if err := os.MkdirAll(c.DumpDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create dump directory: %w", err)
		}

		return trace.NewRecorder(trace.DirOpener(c.DumpDir)), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
}

// BuildMemoryLink creates the link pair the configuration describes. The
// codec and memory are only used by compressed modes.
func (c *Config) BuildMemoryLink(
	codec compression.Codec,
	memory link.MemoryReader,
) (*link.MemoryLink, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var dnPolicy, upPolicy link.SchedulingPolicy
	switch c.Mode {
	case ModePlain:
		dnPolicy, upPolicy = link.PlainPolicy{}, link.PlainPolicy{}
	case ModePacked:
		dnPolicy, upPolicy = link.PackedDownPolicy(), link.PackedUpPolicy()
	case ModeUnpacked:
		dnPolicy, upPolicy = link.UnpackedDownPolicy(), link.UnpackedUpPolicy()
	}

	opts := []link.Option{
		link.WithFlitQueueCapacity(c.FlitQueueCapacity),
		link.WithHolderLatency(c.HolderLatency),
	}

	if c.Compressed() {
		if codec == nil || memory == nil {
			return nil, fmt.Errorf("%s mode needs a codec and a memory", c.Mode)
		}

		opts = append(opts, link.WithCodec(codec), link.WithMemory(memory))
	}

	n := c.NumPartitions()
	dn := link.NewLink(c.Name+".Dn", c.Latency, n, n, dnPolicy, opts...)
	up := link.NewLink(c.Name+".Up", c.Latency, n, n, upPolicy, opts...)

	return link.NewMemoryLink(c.Name, dn, up), nil
}
