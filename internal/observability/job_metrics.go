package observability

import "time"

// ObserveJob wraps a single job execution and records duration + result.
// result should be one of done|retry|failed.
func (p *Prom) ObserveJob(jobType string, fn func() (result string, err error)) error {
	p.JobsInFlight.Inc()
	defer p.JobsInFlight.Dec()

	start := time.Now()

	result, err := fn()

	if result == "" {
		if err != nil {
			result = "failed"
		} else {
			result = "done"
		}
	}

	p.JobResults.WithLabelValues(jobType, result).Inc()
	p.JobDuration.WithLabelValues(jobType, result).Observe(time.Since(start).Seconds())

	return err
}
