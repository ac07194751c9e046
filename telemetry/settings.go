// Package telemetry implements the secondary telemetry exporter: a periodic
// task forwarding already-computed values over a speed-configurable serial
// link using a pluggable wire protocol. Each data category has its own
// update interval, counted in multiples of the base update period. The
// exporter has no dependency on the motion models.
package telemetry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Category names a group of exported values.
type Category string

const (
	CategoryAttitude Category = "attitude"
	CategoryPosition Category = "position"
	CategoryVelocity Category = "velocity"
	CategoryBias     Category = "bias"
	CategoryRaw      Category = "raw"
)

// Categories lists every category in the fixed export order.
var Categories = []Category{
	CategoryAttitude,
	CategoryPosition,
	CategoryVelocity,
	CategoryBias,
	CategoryRaw,
}

// baudRates are the supported serial output speeds.
var baudRates = map[uint]bool{
	2400:   true,
	4800:   true,
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
}

// Settings configures the telemetry exporter. Settings are read once at
// startup and re-applied on change notification via Exporter.Apply.
type Settings struct {
	// Port is the serial device of the output link
	Port string `yaml:"port"`
	// BaudRate is the output speed of the link
	BaudRate uint `yaml:"baudRate"`
	// Enabled turns the exporter on
	Enabled bool `yaml:"enabled"`
	// UpdatePeriodMs is the base update period in milliseconds
	UpdatePeriodMs int `yaml:"updatePeriodMs"`
	// Intervals maps each category to its update interval in multiples of
	// the base period; a zero or missing interval disables the category
	Intervals map[Category]int `yaml:"updateIntervals"`
}

// Period returns the base update period.
func (s Settings) Period() time.Duration {
	return time.Duration(s.UpdatePeriodMs) * time.Millisecond
}

// Validate checks the settings for consistency.
// It returns error if the baud rate is unsupported, the update period is not
// positive or an interval is negative.
func (s Settings) Validate() error {
	if !baudRates[s.BaudRate] {
		return fmt.Errorf("unsupported baud rate: %d", s.BaudRate)
	}

	if s.UpdatePeriodMs <= 0 {
		return fmt.Errorf("invalid update period: %dms", s.UpdatePeriodMs)
	}

	for c, iv := range s.Intervals {
		if iv < 0 {
			return fmt.Errorf("invalid update interval for %s: %d", c, iv)
		}
	}

	return nil
}

// LoadSettings reads telemetry settings from the YAML file at path.
func LoadSettings(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %v", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings: %v", err)
	}

	if err := s.Validate(); err != nil {
		return s, err
	}

	return s, nil
}
