package domain

const (
	// Void is the reserved name of the unbounded source/sink.
	// It reads as zero, discards writes and never appears in output.
	Void = "Void"

	// TimeColumn is the reserved output column holding the grid timestamps.
	TimeColumn = "t"
)
