package types

import "errors"

// DefaultListenAddr is the HTTP bind address used when config.yaml does not
// set one.
const DefaultListenAddr = "127.0.0.1:8080"

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data directory must not be empty")
	ErrListenAddrEmpty = errors.New("listen address must not be empty")
)

// Config holds the resolved runtime settings for the store and HTTP server.
type Config struct {
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.ListenAddr == "" {
		return ErrListenAddrEmpty
	}
	return nil
}
