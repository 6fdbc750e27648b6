// Package config loads host-level default timing knobs for goconpty
// sessions (wait/poll/grace-period defaults), grounded on
// _examples/dcosson-h2/internal/config: a tolerant-of-missing-file yaml
// loader reading from a dotfile directory.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults holds the timing knobs session.New uses when a caller does not
// override them explicitly. These are host configuration, not session
// state: nothing about an in-progress session is ever written back here.
type Defaults struct {
	Width             int           `yaml:"width"`
	Height            int           `yaml:"height"`
	WaitFor           time.Duration `yaml:"wait_for"`
	TimeDelta         time.Duration `yaml:"time_delta"`
	InternalTimeDelta time.Duration `yaml:"internal_time_delta"`
	PostEndDelay      time.Duration `yaml:"post_end_delay"`
}

// Standard defaults, matching _examples/original_source/tests/test_pyconpty.py's
// asserted width=80/height=24 and the spec's poll-cadence guidance.
var Standard = Defaults{
	Width:             80,
	Height:            24,
	WaitFor:           30 * time.Second,
	TimeDelta:         50 * time.Millisecond,
	InternalTimeDelta: 10 * time.Millisecond,
	PostEndDelay:      200 * time.Millisecond,
}

// Dir returns the goconpty configuration directory (~/.goconpty/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".goconpty")
	}
	return filepath.Join(home, ".goconpty")
}

// Load reads defaults from ~/.goconpty/config.yaml, falling back to
// Standard for any field the file does not set. A missing file is not an
// error.
func Load() (Defaults, error) {
	return LoadFrom(filepath.Join(Dir(), "config.yaml"))
}

// LoadFrom reads defaults from path, overlaying them onto Standard.
func LoadFrom(path string) (Defaults, error) {
	d := Standard
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return Defaults{}, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
