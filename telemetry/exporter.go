package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

// Provider supplies the already-computed values of a telemetry category.
type Provider interface {
	// Values returns the current values of category c, nil when the
	// category has nothing to report
	Values(c Category) []float64
}

// Exporter periodically forwards provider values over an output link. Each
// category fires every Intervals[c] ticks of the base update period, tracked
// by a per-category counter.
type Exporter struct {
	w     io.Writer
	prov  Provider
	proto Protocol

	mu       sync.Mutex
	settings Settings
	counts   map[Category]int
}

// NewExporter creates a telemetry exporter writing frames from prov to w
// using the wire protocol proto.
// It returns error if any collaborator is nil or the settings are invalid.
func NewExporter(w io.Writer, prov Provider, proto Protocol, s Settings) (*Exporter, error) {
	if w == nil || prov == nil || proto == nil {
		return nil, fmt.Errorf("invalid exporter collaborators")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Exporter{
		w:        w,
		prov:     prov,
		proto:    proto,
		settings: s,
		counts:   make(map[Category]int),
	}, nil
}

// Apply re-applies settings at runtime, resetting the interval counters.
// It is called on settings change notification.
func (e *Exporter) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings = s
	e.counts = make(map[Category]int)

	return nil
}

// Run drives the exporter until ctx is done, re-reading the settings after
// every tick so that an Apply from another goroutine retunes the live task.
// It returns when the exporter is or becomes disabled and stops on the first
// write error.
func (e *Exporter) Run(ctx context.Context) error {
	period, enabled := e.schedule()
	if !enabled {
		return nil
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.Step(); err != nil {
				return err
			}

			p, enabled := e.schedule()
			if !enabled {
				return nil
			}
			if p != period {
				period = p
				ticker.Reset(period)
			}
		}
	}
}

// schedule returns the current base period and enabled flag.
func (e *Exporter) schedule() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.settings.Period(), e.settings.Enabled
}

// Step runs a single base-period tick: it advances every interval counter
// and exports the categories whose interval elapsed.
func (e *Exporter) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range Categories {
		iv := e.settings.Intervals[c]
		if iv == 0 {
			continue
		}

		e.counts[c]++
		if e.counts[c] < iv {
			continue
		}
		e.counts[c] = 0

		vals := e.prov.Values(c)
		if vals == nil {
			continue
		}

		if err := e.proto.Encode(e.w, c, vals); err != nil {
			return fmt.Errorf("failed to export %s: %v", c, err)
		}
	}

	return nil
}

// Open opens the serial output link configured in s.
func Open(s Settings) (io.ReadWriteCloser, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return serial.Open(serial.OpenOptions{
		PortName:        s.Port,
		BaudRate:        s.BaudRate,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
}
