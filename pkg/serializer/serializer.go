// Package serializer turns the irregular event stream of a run into output.
//
// The driver calls Begin once with the column layout and the initial snapshot,
// Observe after every step, and exactly one of Finish or Abort at the end.
// Snapshots are owned by the driver and reused between calls: an implementation
// must copy whatever it keeps.
package serializer

import "errors"

// ErrNotFinished is returned when a result is requested before the run finished.
var ErrNotFinished = errors.New("serializer: run not finished")

// Serializer consumes the (time, snapshot) events of a run.
type Serializer interface {
	Begin(columns []string, t0 float64, snapshot []float64)
	Observe(t float64, snapshot []float64)
	Finish(t float64, snapshot []float64)
	Abort(err error)
}

// Tee fans events out to several serializers in order.
func Tee(targets ...Serializer) Serializer {
	return tee(targets)
}

type tee []Serializer

func (ts tee) Begin(columns []string, t0 float64, snapshot []float64) {
	for _, s := range ts {
		s.Begin(columns, t0, snapshot)
	}
}

func (ts tee) Observe(t float64, snapshot []float64) {
	for _, s := range ts {
		s.Observe(t, snapshot)
	}
}

func (ts tee) Finish(t float64, snapshot []float64) {
	for _, s := range ts {
		s.Finish(t, snapshot)
	}
}

func (ts tee) Abort(err error) {
	for _, s := range ts {
		s.Abort(err)
	}
}
