// Package config holds the snapshot pipeline's external-interface defaults.
package config

import "runtime"

// Config holds snapshot pipeline configuration.
type Config struct {
	ChunkerName     string
	TargetBlockSize int64
	HasherName      string
	CompressorName  string
	EncryptorName   string
	ECCName         string
	PackSize        int64
	PrepareThreads  int
	EventBufferSize int
}

// DefaultConfig returns the pipeline's out-of-the-box algorithm and sizing choices.
func DefaultConfig() *Config {
	return &Config{
		ChunkerName:     "Rabin64 (mmap)",
		TargetBlockSize: 1 << 20, // 1 MiB
		HasherName:      "Blake3",
		CompressorName:  "Snappy",
		EncryptorName:   "ChaCha20-Poly1305",
		ECCName:         "SECDED",
		PackSize:        20 << 20, // 20 MiB
		PrepareThreads:  defaultPrepareThreads(),
		EventBufferSize: 100,
	}
}

// defaultPrepareThreads is a quarter of the available CPUs, never below one.
func defaultPrepareThreads() int {
	n := runtime.NumCPU() / 4
	if n < 1 {
		n = 1
	}
	return n
}

// LoadConfig loads configuration from a file. Parsing is left to the
// caller's chosen format; this returns defaults until a real source is wired in.
func LoadConfig(configPath string) (*Config, error) {
	return DefaultConfig(), nil
}
