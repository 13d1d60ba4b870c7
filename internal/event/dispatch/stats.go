package dispatch

import "time"

// Stats contains execution statistics for an executor.
type Stats struct {
	// Executed is the total number of executions.
	Executed uint64

	// Succeeded is the number of executions that returned nil.
	Succeeded uint64

	// Failed is the number of executions that returned an error.
	Failed uint64

	// Panicked is the number of executions that panicked.
	Panicked uint64

	// TotalDuration is the cumulative time spent executing.
	TotalDuration time.Duration

	// AvgDuration is the average execution time.
	AvgDuration time.Duration
}

// Stats returns execution statistics.
// Counters are read without a mutex, so values may be slightly inconsistent
// while executions are in flight.
func (e *Executor) Stats() Stats {
	executed := e.executed.Load()
	totalNs := e.totalTimeNs.Load()

	var avgNs int64
	if executed > 0 {
		avgNs = totalNs / int64(executed)
	}

	return Stats{
		Executed:      executed,
		Succeeded:     e.succeeded.Load(),
		Failed:        e.failed.Load(),
		Panicked:      e.panicked.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}
