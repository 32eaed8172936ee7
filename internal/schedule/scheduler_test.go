package schedule

import "testing"

func TestFlushWithoutRequestIsNoop(t *testing.T) {
	runs := 0
	s := NewScheduler(func() { runs++ })

	s.Flush()
	if runs != 0 {
		t.Errorf("runs = %d, want 0", runs)
	}
}

func TestRequestsCoalesce(t *testing.T) {
	runs := 0
	s := NewScheduler(func() { runs++ })

	s.Request()
	s.Request()
	s.Request()
	if !s.Pending() {
		t.Fatal("scheduler should be pending")
	}

	s.Flush()
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (coalesced)", runs)
	}
	if s.Pending() {
		t.Error("still pending after flush")
	}
}

func TestRequestDuringJobRunsOnce(t *testing.T) {
	runs := 0
	var s *Scheduler
	s = NewScheduler(func() {
		runs++
		if runs == 1 {
			// A state change arriving mid-render schedules one follow-up.
			s.Request()
		}
	})

	s.Request()
	s.Flush()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	if s.Flushes() != 2 {
		t.Errorf("flushes = %d, want 2", s.Flushes())
	}
}

func TestReentrantFlushIsNoop(t *testing.T) {
	runs := 0
	var s *Scheduler
	s = NewScheduler(func() {
		runs++
		s.Flush() // must not recurse
	})

	s.Request()
	s.Flush()
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}
