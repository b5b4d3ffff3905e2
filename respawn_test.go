package main

import (
	"reflect"
	"testing"
	"time"
)

func TestRespawnSchedulerFiresOnlyWhenDue(t *testing.T) {
	var fired []string
	s := newRespawnScheduler(func(id string) { fired = append(fired, id) })

	start := time.Now()
	s.now = func() time.Time { return start }

	s.Schedule("obj-1", 30*time.Second)

	s.fireDue(start.Add(29 * time.Second))
	if len(fired) != 0 {
		t.Fatalf("fired %v before the delay elapsed", fired)
	}

	s.fireDue(start.Add(30 * time.Second))
	if !reflect.DeepEqual(fired, []string{"obj-1"}) {
		t.Fatalf("fired %v, want [obj-1]", fired)
	}
	if s.pending() != 0 {
		t.Errorf("pending = %d after firing", s.pending())
	}

	// Firing is one-shot.
	s.fireDue(start.Add(time.Hour))
	if len(fired) != 1 {
		t.Errorf("entry fired %d times", len(fired))
	}
}

func TestRespawnSchedulerIndependentTimers(t *testing.T) {
	var fired []string
	s := newRespawnScheduler(func(id string) { fired = append(fired, id) })

	start := time.Now()
	s.now = func() time.Time { return start }

	s.Schedule("late", 20*time.Second)
	s.Schedule("early", 10*time.Second)
	s.Schedule("middle", 15*time.Second)

	s.fireDue(start.Add(16 * time.Second))
	if !reflect.DeepEqual(fired, []string{"early", "middle"}) {
		t.Fatalf("fired %v, want [early middle]", fired)
	}
	if s.pending() != 1 {
		t.Fatalf("pending = %d, want 1", s.pending())
	}

	s.fireDue(start.Add(20 * time.Second))
	if !reflect.DeepEqual(fired, []string{"early", "middle", "late"}) {
		t.Fatalf("fired %v", fired)
	}
}

func TestRespawnSchedulerRealTimer(t *testing.T) {
	fired := make(chan string, 1)
	s := newRespawnScheduler(func(id string) { fired <- id })

	s.Schedule("obj-1", 10*time.Millisecond)

	select {
	case id := <-fired:
		if id != "obj-1" {
			t.Fatalf("fired %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
