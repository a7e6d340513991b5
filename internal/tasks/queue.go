// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when pushing to or popping from a closed queue.
var ErrClosed = errors.New("queue closed")

// =============================================================================
// TASK QUEUE
// =============================================================================

// Queue is a FIFO of auto-play tasks with a bounded history of finished ones.
type Queue struct {
	// pending holds tasks not yet handed to the worker, oldest first
	pending []*Task

	// history holds finished tasks, oldest first
	history []*Task

	// maxHistory is the maximum number of finished tasks to keep (0 = unlimited)
	maxHistory int

	// maxPending is the maximum number of pending tasks (0 = unlimited)
	maxPending int

	closed bool

	// ready is signalled whenever a task is pushed or the queue closes
	ready chan struct{}

	mu sync.Mutex
}

// NewQueue creates a task queue.
func NewQueue(maxHistory, maxPending int) *Queue {
	return &Queue{
		maxHistory: maxHistory,
		maxPending: maxPending,
		ready:      make(chan struct{}, 1),
	}
}

// =============================================================================
// PUSH / POP
// =============================================================================

// Push appends a task to the back of the queue.
func (q *Queue) Push(task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.maxPending > 0 && len(q.pending) >= q.maxPending {
		return fmt.Errorf("queue is full: %d pending tasks (max: %d)", len(q.pending), q.maxPending)
	}
	q.pending = append(q.pending, task)
	q.signal()
	return nil
}

// Pop removes the task at the front of the queue, blocking until one is
// available, the queue closes or ctx is done.
func (q *Queue) Pop(ctx context.Context) (*Task, error) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			task := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			if len(q.pending) > 0 {
				q.signal()
			}
			q.mu.Unlock()
			return task, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		}
	}
}

// signal wakes a waiting Pop (must be called with lock held).
func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Close stops the queue and returns the tasks that were still pending.
func (q *Queue) Close() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	dropped := q.pending
	q.pending = nil
	q.signal()
	return dropped
}

// =============================================================================
// HISTORY
// =============================================================================

// Finish records a task that reached a terminal state.
func (q *Queue) Finish(task *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.history = append(q.history, task)
	if q.maxHistory > 0 && len(q.history) > q.maxHistory {
		q.history = q.history[len(q.history)-q.maxHistory:]
	}
}

// History returns copies of finished tasks, oldest first.
func (q *Queue) History() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Task, len(q.history))
	for i, t := range q.history {
		out[i] = t.Clone()
	}
	return out
}

// Pending returns copies of tasks waiting for the worker.
func (q *Queue) Pending() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Task, len(q.pending))
	for i, t := range q.pending {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Summary returns a formatted summary of the queue.
func (q *Queue) Summary() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	completed, canceled := 0, 0
	for _, t := range q.history {
		switch t.GetStatus() {
		case TaskStatusComplete:
			completed++
		case TaskStatusCanceled:
			canceled++
		}
	}
	return fmt.Sprintf("Queued: %d | Completed: %d | Canceled: %d", len(q.pending), completed, canceled)
}
