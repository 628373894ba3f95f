// Package progress carries generation progress from the worker goroutine to
// whoever renders it: the CLI progress bar, a channel, or websocket clients.
package progress

import (
	"math"
	"sync"
	"time"
)

// Kind is the type of a progress event.
type Kind string

const (
	KindProgress Kind = "progress"
	KindStatus   Kind = "status"
	KindWarning  Kind = "warning"
	KindDone     Kind = "done"
	KindFailed   Kind = "failed"
)

// Event is a single progress notification.
type Event struct {
	Kind     Kind      `json:"kind"`
	JobID    string    `json:"job_id,omitempty"`
	Fraction float64   `json:"fraction"`
	Message  string    `json:"message,omitempty"`
	Time     time.Time `json:"time"`
}

// Terminal reports whether no further events follow e.
func (e Event) Terminal() bool {
	return e.Kind == KindDone || e.Kind == KindFailed
}

// Sink receives events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// ChanSink sends every event on the channel, blocking until it is received
// or buffered.
type ChanSink chan<- Event

func (c ChanSink) Emit(e Event) { c <- e }

// Discard drops all events.
var Discard Sink = SinkFunc(func(Event) {})

type tee []Sink

func (t tee) Emit(e Event) {
	for _, s := range t {
		s.Emit(e)
	}
}

// Tee returns a sink that forwards to each non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	var t tee
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

// Reporter stamps events with a job id and keeps the reported fraction
// non-decreasing and within [0, 1].
type Reporter struct {
	mu    sync.Mutex
	jobID string
	sink  Sink
	last  float64
	ended bool
}

// NewReporter returns a reporter for jobID. A nil sink discards events.
func NewReporter(jobID string, sink Sink) *Reporter {
	if sink == nil {
		sink = Discard
	}
	return &Reporter{jobID: jobID, sink: sink}
}

func (r *Reporter) emit(kind Kind, frac float64, msg string) {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return
	}
	if !math.IsNaN(frac) {
		frac = math.Min(math.Max(frac, r.last), 1)
		r.last = frac
	}
	e := Event{Kind: kind, JobID: r.jobID, Fraction: r.last, Message: msg, Time: time.Now()}
	if e.Terminal() {
		r.ended = true
	}
	r.mu.Unlock()
	r.sink.Emit(e)
}

// Progress reports a fraction. Values lower than the last one are raised to
// it; values above 1 are clamped.
func (r *Reporter) Progress(frac float64, msg string) {
	r.emit(KindProgress, frac, msg)
}

// Status reports a message without moving the fraction.
func (r *Reporter) Status(msg string) {
	r.emit(KindStatus, math.NaN(), msg)
}

// Warn reports a non-fatal problem.
func (r *Reporter) Warn(msg string) {
	r.emit(KindWarning, math.NaN(), msg)
}

// Done reports success. The fraction is exactly 1.
func (r *Reporter) Done(msg string) {
	r.emit(KindDone, 1, msg)
}

// Fail reports failure, keeping the last fraction.
func (r *Reporter) Fail(err error) {
	r.emit(KindFailed, math.NaN(), err.Error())
}

// Fraction returns the last reported fraction.
func (r *Reporter) Fraction() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
