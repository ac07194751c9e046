package telemetry

import (
	"fmt"
	"io"
)

// Protocol encodes telemetry frames onto the output link. Implementations
// translate between the exported values and a concrete wire format, keeping
// the exporter itself protocol-agnostic.
type Protocol interface {
	// Encode writes one frame of values from category c to w
	Encode(w io.Writer, c Category, vals []float64) error
}

// LineProtocol is a simple ASCII wire format writing one space-separated
// line per frame, suitable for on-screen displays and logging consumers.
type LineProtocol struct{}

// Encode implements Protocol.
func (LineProtocol) Encode(w io.Writer, c Category, vals []float64) error {
	if _, err := fmt.Fprintf(w, "%s", c); err != nil {
		return err
	}

	for _, v := range vals {
		if _, err := fmt.Fprintf(w, " %.6f", v); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)

	return err
}
