package serializer

// Event is one recorded (time, snapshot) pair.
type Event struct {
	Time   float64
	Values []float64
}

// Recorder keeps every event of a run, including the initial and final snapshots.
// It is meant for tests and diagnostics; a long run produces one entry per firing.
type Recorder struct {
	Columns  []string
	events   []Event
	finished bool
	err      error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Begin(columns []string, t0 float64, snapshot []float64) {
	r.Columns = append([]string(nil), columns...)
	r.events = r.events[:0]
	r.finished = false
	r.err = nil
	r.Observe(t0, snapshot)
}

func (r *Recorder) Observe(t float64, snapshot []float64) {
	r.events = append(r.events, Event{Time: t, Values: append([]float64(nil), snapshot...)})
}

func (r *Recorder) Finish(t float64, snapshot []float64) {
	r.Observe(t, snapshot)
	r.finished = true
}

func (r *Recorder) Abort(err error) {
	r.events = nil
	r.err = err
}

// Events returns the recorded events, or the abort error.
func (r *Recorder) Events() ([]Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.finished {
		return nil, ErrNotFinished
	}
	return r.events, nil
}

// Index returns the position of a column, or -1.
func (r *Recorder) Index(column string) int {
	for i, c := range r.Columns {
		if c == column {
			return i
		}
	}
	return -1
}
