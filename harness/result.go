// Package harness repeats a prime count across a sweep of thread counts and records
// how long every run took.
package harness

import (
	"time"
)

// Record is the outcome of one run of the computation.
type Record struct {
	RunID     string        `json:"run_id" csv:"run_id"`
	Threads   int64         `json:"threads" csv:"threads"`
	Iteration int           `json:"iteration" csv:"iteration"`
	Limit     int64         `json:"limit" csv:"limit"`
	Count     int           `json:"count" csv:"count"`
	Duration  time.Duration `json:"duration_ns,format:nano" csv:"duration_ns"`
}

// Sweep holds every Record for one thread count.
type Sweep struct {
	Threads int64         `json:"threads"`
	Runs    []Record      `json:"runs"`
	Avg     time.Duration `json:"avg_ns,format:nano"`
	Min     time.Duration `json:"min_ns,format:nano"`
	Max     time.Duration `json:"max_ns,format:nano"`
}

// add appends rec and updates the aggregate durations.
func (s *Sweep) add(rec Record) {
	if len(s.Runs) == 0 || rec.Duration < s.Min {
		s.Min = rec.Duration
	}
	if rec.Duration > s.Max {
		s.Max = rec.Duration
	}
	s.Runs = append(s.Runs, rec)

	var total time.Duration
	for _, r := range s.Runs {
		total += r.Duration
	}
	s.Avg = total / time.Duration(len(s.Runs))
}

// Report is the outcome of a Runner.Run().
type Report struct {
	RunID      string        `json:"run_id"`
	Limit      int64         `json:"limit"`
	Iterations int           `json:"iterations"`
	Backend    Backend       `json:"backend"`
	Collect    string        `json:"collect"`
	Verified   bool          `json:"verified"`
	Count      int           `json:"count"`
	Started    time.Time     `json:"started"`
	Elapsed    time.Duration `json:"elapsed_ns,format:nano"`
	Sweeps     []Sweep       `json:"sweeps"`
}

// Averages returns the average duration of every Sweep in sweep order.
func (r Report) Averages() []time.Duration {
	out := make([]time.Duration, 0, len(r.Sweeps))
	for _, s := range r.Sweeps {
		out = append(out, s.Avg)
	}
	return out
}

// Records returns every Record of every Sweep in the order they ran.
func (r Report) Records() []Record {
	var out []Record
	for _, s := range r.Sweeps {
		out = append(out, s.Runs...)
	}
	return out
}
