// Package config holds the configuration options for the server and
// client entry points. Values are layered: command-line flags provide
// defaults, a JSON config file overrides them, and environment
// variables override the file.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Defaults for the server options.
const (
	DefaultAddr    = ":6433"
	DefaultWorkers = 5
)

// ServerOptions configures the vault server.
type ServerOptions struct {
	// Addr is the listen address (ip:port).
	Addr string `json:"addr"`
	// Vault is the root directory passwords are stored under.
	Vault string `json:"vault"`
	// Workers bounds the number of concurrently served connections.
	Workers int `json:"workers"`
	// DebugAddr enables the HTTP debug endpoint when non-empty.
	DebugAddr string `json:"debug_addr"`
	// Salt is the hex-encoded deployment salt for key derivation.
	// Empty selects the built-in compatibility salt.
	Salt string `json:"salt"`
	// LogLevel selects the zap log level.
	LogLevel string `json:"log_level"`
}

// ClientOptions configures the interactive client.
type ClientOptions struct {
	// Addr is the server address to connect to.
	Addr string `json:"addr"`
	// Salt is the hex-encoded deployment salt; it must match the
	// server's for field encryption to round-trip.
	Salt string `json:"salt"`
}

// LoadServer layers the config file at path (if present) and the
// environment over opts.
func LoadServer(path string, opts *ServerOptions) error {
	if err := mergeFile(path, opts); err != nil {
		return err
	}

	applyEnvString("PASSSECURE_ADDR", &opts.Addr)
	applyEnvString("PASSSECURE_VAULT", &opts.Vault)
	applyEnvString("PASSSECURE_DEBUG_ADDR", &opts.DebugAddr)
	applyEnvString("PASSSECURE_SALT", &opts.Salt)
	applyEnvString("PASSSECURE_LOG_LEVEL", &opts.LogLevel)
	if workers := os.Getenv("PASSSECURE_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("parse PASSSECURE_WORKERS: %w", err)
		}
		opts.Workers = n
	}
	return nil
}

// LoadClient layers the config file at path (if present) and the
// environment over opts.
func LoadClient(path string, opts *ClientOptions) error {
	if err := mergeFile(path, opts); err != nil {
		return err
	}

	applyEnvString("PASSSECURE_ADDR", &opts.Addr)
	applyEnvString("PASSSECURE_SALT", &opts.Salt)
	return nil
}

// DecodeSalt converts a hex salt string to bytes. Empty input yields
// nil, which selects the cipher engine's default.
func DecodeSalt(salt string) ([]byte, error) {
	if salt == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	return raw, nil
}

// mergeFile unmarshals the JSON file at path over v. A missing file or
// an empty path is not an error.
func mergeFile(path string, v any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvString(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}
