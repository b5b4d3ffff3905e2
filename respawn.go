package main

import (
	"container/heap"
	"sync"
	"time"
)

type pendingRespawn struct {
	objectID string
	due      time.Time
}

type respawnQueue []pendingRespawn

func (q respawnQueue) Len() int            { return len(q) }
func (q respawnQueue) Less(i, j int) bool  { return q[i].due.Before(q[j].due) }
func (q respawnQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *respawnQueue) Push(x any)         { *q = append(*q, x.(pendingRespawn)) }
func (q *respawnQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// respawnScheduler holds one time-ordered queue of pending respawns and a
// single timer armed for the earliest entry. fireDue is callable directly,
// so tests drive logical time instead of sleeping.
type respawnScheduler struct {
	mu    sync.Mutex
	queue respawnQueue
	timer *time.Timer
	fire  func(objectID string)
	now   func() time.Time
}

func newRespawnScheduler(fire func(objectID string)) *respawnScheduler {
	return &respawnScheduler{
		fire: fire,
		now:  time.Now,
	}
}

// Schedule arms a one-shot respawn for the object after delay. Entries for
// different objects are independent; there is no cap on pending respawns.
func (s *respawnScheduler) Schedule(objectID string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	heap.Push(&s.queue, pendingRespawn{
		objectID: objectID,
		due:      s.now().Add(delay),
	})
	s.rearmLocked()
}

// fireDue pops every entry due at or before now and fires it. The fire
// callback runs outside the scheduler lock; it takes the hub lock itself.
func (s *respawnScheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []string
	for len(s.queue) > 0 && !s.queue[0].due.After(now) {
		due = append(due, heap.Pop(&s.queue).(pendingRespawn).objectID)
	}
	s.rearmLocked()
	s.mu.Unlock()

	for _, objectID := range due {
		s.fire(objectID)
	}
}

func (s *respawnScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// rearmLocked points the timer at the earliest pending entry, if any.
func (s *respawnScheduler) rearmLocked() {
	if len(s.queue) == 0 {
		return
	}

	wait := time.Until(s.queue[0].due)
	if wait < 0 {
		wait = 0
	}

	if s.timer == nil {
		s.timer = time.AfterFunc(wait, func() {
			s.fireDue(s.now())
		})
		return
	}
	s.timer.Reset(wait)
}
