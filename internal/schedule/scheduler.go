// Package schedule coalesces state-triggered re-render requests.
//
// The model is explicit: a state mutation enqueues one re-render job; the
// owning renderer drains the queue at its next cooperative yield point. Any
// number of requests between flushes collapse into a single run, and a
// request issued while the job is running schedules exactly one follow-up.
// There is no cancellation and no timeout: a flushed job always runs with
// whatever is the latest state at flush time.
package schedule

import "sync"

// Scheduler coalesces requests for a single job.
type Scheduler struct {
	mu      sync.Mutex
	job     func()
	pending bool
	running bool
	flushes int
}

// NewScheduler creates a scheduler for the given job.
func NewScheduler(job func()) *Scheduler {
	return &Scheduler{job: job}
}

// Request marks the job pending. Requests made while one is already
// pending coalesce into the same run.
func (s *Scheduler) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
}

// Pending reports whether a flush would run the job.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flushes returns the number of job runs performed.
func (s *Scheduler) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// Flush runs the job if one is pending. Requests issued by the job itself
// trigger exactly one follow-up run within the same flush. Re-entrant
// Flush calls (from inside the job) are no-ops; the outer flush loop picks
// the request up.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true

	for s.pending {
		s.pending = false
		s.flushes++
		job := s.job
		s.mu.Unlock()

		if job != nil {
			job()
		}

		s.mu.Lock()
	}

	s.running = false
	s.mu.Unlock()
}
