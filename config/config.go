// Package config holds the configuration of a simulated memory link and
// builds the link and its codec from it.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/complink/compression/vsc"
	"github.com/sarchlab/complink/timing/link"
)

// Mode selects how the link treats data payloads.
type Mode string

// Link modes.
const (
	// ModePlain sends every payload uncompressed.
	ModePlain Mode = "plain"
	// ModePacked compresses data and packs packets into leftover flit bits.
	ModePacked Mode = "packed"
	// ModeUnpacked compresses data and rounds each payload to whole flits.
	ModeUnpacked Mode = "unpacked"
)

// CodecKind selects the compressor of a compressed link.
type CodecKind string

// Codec kinds.
const (
	// CodecVSC is the virtual stream compressor.
	CodecVSC CodecKind = "vsc"
	// CodecBPS is the inter-line bit-plane codec.
	CodecBPS CodecKind = "bps"
	// CodecBP is the intra-line bit-plane codec.
	CodecBP CodecKind = "bp"
	// CodecCPack is the dictionary codec.
	CodecCPack CodecKind = "cpack"
	// CodecDump records traffic without compressing it.
	CodecDump CodecKind = "dump"
)

// Config describes a memory link between the requesters and the memory
// sub-partitions.
type Config struct {
	// Name is the link name. It must be a valid component name, such as
	// "MemLink". Default: "MemLink".
	Name string `json:"name"`

	// Latency is the wire latency in flits. It must cover the largest
	// per-cycle flit budget. Default: 32.
	Latency int `json:"latency"`

	// Channels is the number of memory channels. Default: 6.
	Channels int `json:"channels"`

	// SubPartitionsPerChannel is the number of sub-partitions per channel.
	// The link has one source and one destination per sub-partition.
	// Default: 2.
	SubPartitionsPerChannel int `json:"sub_partitions_per_channel"`

	// DnFlitsPerCycle is the downlink bandwidth. Fractions accumulate across
	// cycles. Default: 2.
	DnFlitsPerCycle float64 `json:"dn_flits_per_cycle"`

	// UpFlitsPerCycle is the uplink bandwidth. Default: 4.
	UpFlitsPerCycle float64 `json:"up_flits_per_cycle"`

	// Mode is the link mode. Default: packed.
	Mode Mode `json:"mode"`

	// Codec is the compressor used by compressed modes. Default: vsc.
	Codec CodecKind `json:"codec"`

	// HistoryDepth is the window depth of the stream compressor.
	// Default: 32.
	HistoryDepth int `json:"history_depth"`

	// OpcodeBits is the per-word opcode cost of the stream compressor.
	// Default: 0.
	OpcodeBits uint32 `json:"opcode_bits"`

	// FlitQueueCapacity is the flit capacity of each direction beyond the
	// wire latency. Default: 4000.
	FlitQueueCapacity int `json:"flit_queue_capacity"`

	// HolderLatency is the number of cycles a compressed payload waits
	// before transmission. Default: 1.
	HolderLatency int `json:"holder_latency"`

	// DumpDir is where the dump codec writes stream traces.
	DumpDir string `json:"dump_dir,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Name:                    "MemLink",
		Latency:                 32,
		Channels:                6,
		SubPartitionsPerChannel: 2,
		DnFlitsPerCycle:         2,
		UpFlitsPerCycle:         4,
		Mode:                    ModePacked,
		Codec:                   CodecVSC,
		HistoryDepth:            vsc.DefaultHistoryDepth,
		OpcodeBits:              0,
		FlitQueueCapacity:       link.DefaultFlitQueueCapacity,
		HolderLatency:           link.DefaultHolderLatency,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read link config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse link config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize link config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write link config file: %w", err)
	}

	return nil
}

// NumPartitions returns the number of link sources and destinations.
func (c *Config) NumPartitions() int {
	return c.Channels * c.SubPartitionsPerChannel
}

// Compressed returns true if data payloads go through a codec.
func (c *Config) Compressed() bool {
	return c.Mode != ModePlain
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validName(c.Name); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Latency <= 0 {
		result = multierror.Append(result, fmt.Errorf("latency must be > 0"))
	}
	if c.Channels <= 0 {
		result = multierror.Append(result, fmt.Errorf("channels must be > 0"))
	}
	if c.SubPartitionsPerChannel <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("sub_partitions_per_channel must be > 0"))
	}
	if c.DnFlitsPerCycle <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("dn_flits_per_cycle must be > 0"))
	}
	if c.UpFlitsPerCycle <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("up_flits_per_cycle must be > 0"))
	}

	maxBudget := math.Ceil(math.Max(c.DnFlitsPerCycle, c.UpFlitsPerCycle))
	if c.Latency > 0 && float64(c.Latency) < maxBudget {
		result = multierror.Append(result,
			fmt.Errorf("latency must be >= %v flits per cycle", maxBudget))
	}

	switch c.Mode {
	case ModePlain, ModePacked, ModeUnpacked:
	default:
		result = multierror.Append(result,
			fmt.Errorf("unknown mode %q", c.Mode))
	}

	switch c.Codec {
	case CodecVSC, CodecBPS, CodecBP, CodecCPack:
	case CodecDump:
		if c.DumpDir == "" {
			result = multierror.Append(result,
				fmt.Errorf("dump codec needs dump_dir"))
		}
	default:
		result = multierror.Append(result,
			fmt.Errorf("unknown codec %q", c.Codec))
	}

	if c.HistoryDepth <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("history_depth must be > 0"))
	}
	if c.OpcodeBits > 64 {
		result = multierror.Append(result,
			fmt.Errorf("opcode_bits must be <= 64"))
	}
	if c.FlitQueueCapacity <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("flit_queue_capacity must be > 0"))
	}
	if c.HolderLatency <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("holder_latency must be > 0"))
	}

	return result.ErrorOrNil()
}

func validName(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid name: %v", r)
		}
	}()

	sim.NameMustBeValid(name)

	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
