// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(0, 0)
	for _, cmd := range []string{"about", "skills", "projects"} {
		require.NoError(t, q.Push(NewTask(cmd, time.Now())))
	}

	ctx := context.Background()
	for _, want := range []string{"about", "skills", "projects"} {
		task, err := q.Pop(ctx)
		require.NoError(t, err)
		if task.Command != want {
			t.Errorf("Pop() = %q, want %q", task.Command, want)
		}
	}
	require.Equal(t, 0, q.Len())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue(0, 0)
	got := make(chan string, 1)

	go func() {
		task, err := q.Pop(context.Background())
		if err == nil {
			got <- task.Command
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Push(NewTask("contact", time.Now())))

	select {
	case cmd := <-got:
		require.Equal(t, "contact", cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not return after Push")
	}
}

func TestQueue_PopHonoursContext(t *testing.T) {
	q := NewQueue(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue(0, 0)
	require.NoError(t, q.Push(NewTask("about", time.Now())))

	dropped := q.Close()
	require.Len(t, dropped, 1)
	require.Nil(t, q.Close())

	require.ErrorIs(t, q.Push(NewTask("skills", time.Now())), ErrClosed)
	_, err := q.Pop(context.Background())
	require.ErrorIs(t, err, ErrClosed)
}

func TestQueue_MaxPending(t *testing.T) {
	q := NewQueue(0, 1)
	require.NoError(t, q.Push(NewTask("about", time.Now())))
	require.Error(t, q.Push(NewTask("skills", time.Now())))
}

func TestQueue_HistoryBounded(t *testing.T) {
	q := NewQueue(2, 0)
	for _, cmd := range []string{"a", "b", "c"} {
		q.Finish(NewTask(cmd, time.Now()))
	}

	h := q.History()
	require.Len(t, h, 2)
	require.Equal(t, "b", h[0].Command)
	require.Equal(t, "c", h[1].Command)
}
