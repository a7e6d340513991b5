// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TASK STATUS
// =============================================================================

// TaskStatus represents the current state of an auto-play task.
type TaskStatus string

const (
	// TaskStatusQueued indicates the task is waiting for the worker
	TaskStatusQueued TaskStatus = "Queued"

	// TaskStatusTyping indicates the typing animation is in progress
	TaskStatusTyping TaskStatus = "Typing"

	// TaskStatusComplete indicates the command output was appended
	TaskStatusComplete TaskStatus = "Complete"

	// TaskStatusCanceled indicates the player shut down before completion
	TaskStatusCanceled TaskStatus = "Canceled"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// =============================================================================
// TASK STRUCTURE
// =============================================================================

// Task is one auto-played command.
type Task struct {
	// ID is a unique identifier for this task
	ID string

	// Command is the text typed and then run
	Command string

	// Status is the current state of the task
	Status TaskStatus

	// EnqueuedAt is when the task entered the queue
	EnqueuedAt time.Time

	// StartTime is when the typing animation began
	StartTime time.Time

	// TypedAt is when the animation finished and the command was submitted
	TypedAt time.Time

	// EndTime is when the output was appended or the task was canceled
	EndTime time.Time

	mu sync.RWMutex
}

// NewTask creates a queued task for command.
func NewTask(command string, now time.Time) *Task {
	return &Task{
		ID:         uuid.New().String(),
		Command:    command,
		Status:     TaskStatusQueued,
		EnqueuedAt: now,
	}
}

// =============================================================================
// TASK METHODS
// =============================================================================

// SetStatus updates the task status.
// Valid transitions: Queued -> Typing -> Complete, and any non-terminal
// state -> Canceled.
func (t *Task) SetStatus(status TaskStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isValidTransition(t.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", t.Status, status)
	}
	t.Status = status
	return nil
}

func isValidTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case TaskStatusQueued:
		return to == TaskStatusTyping || to == TaskStatusCanceled
	case TaskStatusTyping:
		return to == TaskStatusComplete || to == TaskStatusCanceled
	default:
		return false
	}
}

// GetStatus returns the current task status.
func (t *Task) GetStatus() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status
}

// MarkStarted records the start of the typing animation.
func (t *Task) MarkStarted(now time.Time) error {
	if err := t.SetStatus(TaskStatusTyping); err != nil {
		return err
	}
	t.mu.Lock()
	t.StartTime = now
	t.mu.Unlock()
	return nil
}

// MarkTyped records the end of the typing animation.
func (t *Task) MarkTyped(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TypedAt = now
}

// MarkComplete records that the command output was appended.
func (t *Task) MarkComplete(now time.Time) error {
	if err := t.SetStatus(TaskStatusComplete); err != nil {
		return err
	}
	t.mu.Lock()
	t.EndTime = now
	t.mu.Unlock()
	return nil
}

// MarkCanceled cancels a task that has not completed.
// Returns false if the task already reached a terminal state.
func (t *Task) MarkCanceled(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !isValidTransition(t.Status, TaskStatusCanceled) || t.Status == TaskStatusCanceled {
		return false
	}
	t.Status = TaskStatusCanceled
	t.EndTime = now
	return true
}

// IsDone returns true once the task is complete or canceled.
func (t *Task) IsDone() bool {
	s := t.GetStatus()
	return s == TaskStatusComplete || s == TaskStatusCanceled
}

// Duration returns how long the task took from typing start to completion.
func (t *Task) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.StartTime.IsZero() || t.EndTime.IsZero() {
		return 0
	}
	return t.EndTime.Sub(t.StartTime)
}

// Summary returns a one-line summary of the task.
func (t *Task) Summary() string {
	summary := fmt.Sprintf("[%s] %s - %s", t.ID[:8], t.Command, t.GetStatus())
	if d := t.Duration(); d > 0 {
		summary += fmt.Sprintf(" (%.2fs)", d.Seconds())
	}
	return summary
}

// Clone creates a copy of the task for reading.
func (t *Task) Clone() *Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Task{
		ID:         t.ID,
		Command:    t.Command,
		Status:     t.Status,
		EnqueuedAt: t.EnqueuedAt,
		StartTime:  t.StartTime,
		TypedAt:    t.TypedAt,
		EndTime:    t.EndTime,
	}
}
