// Package report formats harness results.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/gostdlib/primes/harness"
	"github.com/jszwec/csvutil"
)

// Format is an output format for a harness.Report.
type Format string

const (
	// FormatText is the human readable per run and average listing.
	FormatText Format = "text"
	// FormatJSON is the whole Report as JSON.
	FormatJSON Format = "json"
	// FormatCSV is one row per run.
	FormatCSV Format = "csv"
)

// Write writes rep to w in format f.
func Write(w io.Writer, f Format, rep harness.Report) error {
	switch f {
	case FormatText, "":
		return Text(w, rep)
	case FormatJSON:
		return JSON(w, rep)
	case FormatCSV:
		return CSV(w, rep)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// Text writes every run's duration, the average for each thread count and then the
// list of averages, all in microseconds.
func Text(w io.Writer, rep harness.Report) error {
	if len(rep.Sweeps) == 0 {
		return fmt.Errorf("no results to report")
	}

	b := &strings.Builder{}
	for _, s := range rep.Sweeps {
		for _, r := range s.Runs {
			writeRecord(b, r)
		}
		writeSweep(b, s)
	}
	writeAverages(b, rep)

	_, err := io.WriteString(w, b.String())
	return err
}

// Stream writes the text format while a harness.Runner is running, so every run
// shows up as soon as it finishes. Pass it to Runner.Observe() and call Summary()
// after Run() returns. The output is the same as Text().
type Stream struct {
	w   io.Writer
	err error
}

var _ harness.Observer = &Stream{}

// NewStream returns a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

// Record implements harness.Observer.Record().
func (s *Stream) Record(rec harness.Record) {
	if s.err == nil {
		s.err = writeRecord(s.w, rec)
	}
}

// Sweep implements harness.Observer.Sweep().
func (s *Stream) Sweep(sw harness.Sweep) {
	if s.err == nil {
		s.err = writeSweep(s.w, sw)
	}
}

// Summary writes the list of averages of rep. It returns the first error any
// write of the Stream hit.
func (s *Stream) Summary(rep harness.Report) error {
	if s.err != nil {
		return s.err
	}
	if len(rep.Sweeps) == 0 {
		return fmt.Errorf("no results to report")
	}
	s.err = writeAverages(s.w, rep)
	return s.err
}

func writeRecord(w io.Writer, r harness.Record) error {
	_, err := fmt.Fprintf(w, " | Test %d | Speed: %d microseconds\n", r.Iteration, r.Duration.Microseconds())
	return err
}

func writeSweep(w io.Writer, s harness.Sweep) error {
	_, err := fmt.Fprintf(w, "No. of Threads: %d | Avg. Runtime: %s microseconds\n\n\n", s.Threads, micros(s.Avg))
	return err
}

func writeAverages(w io.Writer, rep harness.Report) error {
	avgs := rep.Averages()
	out := make([]string, 0, len(avgs))
	for _, a := range avgs {
		out = append(out, micros(a))
	}
	_, err := fmt.Fprintf(w, "Average Runtime Array: \n\n%s\n", strings.Join(out, ", "))
	return err
}

// JSON writes rep as a JSON object.
func JSON(w io.Writer, rep harness.Report) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	b = append(b, '\n')

	_, err = w.Write(b)
	return err
}

// CSV writes one row per harness.Record with a header row.
func CSV(w io.Writer, rep harness.Report) error {
	recs := rep.Records()
	if len(recs) == 0 {
		return fmt.Errorf("no results to report")
	}

	b, err := csvutil.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	_, err = w.Write(b)
	return err
}

// micros formats d as fractional microseconds with no trailing zeros.
func micros(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Nanoseconds())/1e3, 'f', -1, 64)
}
