package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-graph/dsp/reconcile"
	"github.com/cwbudde/algo-graph/dsp/unit"
	"github.com/cwbudde/algo-graph/internal/config"
	"github.com/cwbudde/algo-graph/measure/level"
	"github.com/cwbudde/algo-graph/measure/spectrum"
)

const analysisSize = 4096

// capture keeps the most recent samples of one channel.
type capture struct {
	buf   []float64
	next  int
	count int
}

func newCapture(size int) *capture {
	return &capture{buf: make([]float64, size)}
}

// Add appends x, overwriting the oldest samples.
func (c *capture) Add(x []float64) {
	for _, v := range x {
		c.buf[c.next] = v
		c.next = (c.next + 1) % len(c.buf)
	}
	c.count = min(c.count+len(x), len(c.buf))
}

// Samples returns the captured samples in time order, or nil while fewer
// than the capacity have been added.
func (c *capture) Samples() []float64 {
	if c.count < len(c.buf) {
		return nil
	}
	out := make([]float64, 0, len(c.buf))
	out = append(out, c.buf[c.next:]...)
	return append(out, c.buf[:c.next]...)
}

func writeReport(w io.Writer, cfg config.Config, rc *reconcile.Reconciler, meter *level.Meter, c *capture) error {
	g := rc.Graph()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "SLOT\tNODE\tKIND\tBYPASS")
	cur := rc.Current()
	for i := range reconcile.SlotCount {
		id, kind := rc.Slot(i)
		node := "-"
		if id != 0 {
			node = id.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", i+1, node, kind, cur.Bypass[i])
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "NODE\tNAME\tPREPARED\tBYPASSED")
	for _, n := range g.Nodes() {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", n.ID(), n.Name(), n.Prepared(), n.Bypassed())
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CONNECTION")
	for _, conn := range g.Connections() {
		fmt.Fprintf(tw, "%s\n", conn)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CHANNEL\tPEAK dBFS\tRMS dBFS")
	for ch, r := range meter.Readings() {
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\n", ch, r.PeakDB(), r.RMSDB())
	}

	if samples := c.Samples(); samples != nil {
		a, err := spectrum.NewAnalyzer(len(samples), cfg.SampleRate)
		if err != nil {
			return err
		}
		peak, err := a.Peak(samples)
		if err != nil {
			return err
		}
		high, err := a.BandRatio(samples, unit.FilterCutoff)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "spectral peak (ch 0):\t%.1f Hz\t%.3f\n", peak.Frequency, peak.Magnitude)
		fmt.Fprintf(tw, "energy above %.0f Hz:\t%.1f%%\n", unit.FilterCutoff, 100*high)
		tail := level.Measure(samples)
		fmt.Fprintf(tw, "last %d samples (ch 0):\t%.1f dBFS peak\t%.1f dBFS RMS\n", len(samples), tail.PeakDB(), tail.RMSDB())
	}

	if cfg.Output != "" {
		fmt.Fprintf(tw, "\nwritten:\t%s\n", cfg.Output)
	}

	return tw.Flush()
}
