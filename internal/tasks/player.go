// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/termfolio/internal/terminal"
)

// DefaultTypingDelay is the pause before each typed character.
const DefaultTypingDelay = 45 * time.Millisecond

// =============================================================================
// PLAYER
// =============================================================================

// Terminal is what the player types into.
type Terminal interface {
	Run(command string) []terminal.Entry
	SetTyping(text string, active bool)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Phase identifies a player event.
type Phase string

const (
	PhaseTyping   Phase = "typing"
	PhaseExecuted Phase = "executed"
	PhaseCanceled Phase = "canceled"
)

// Event reports player progress to the UI.
type Event struct {
	TaskID  string
	Command string
	Typed   string
	Phase   Phase
}

// PlayerOptions configures a Player.
type PlayerOptions struct {
	// TypingDelay is the pause before each character. The caret holds for
	// twice this long once the command is fully typed.
	TypingDelay time.Duration

	// MaxPending bounds the queue (0 = unlimited).
	MaxPending int

	// MaxHistory bounds the finished-task history (0 = unlimited).
	MaxHistory int

	// OnEvent is called from the worker goroutine.
	OnEvent func(Event)

	Sleep  SleepFunc
	Now    func() time.Time
	Logger *slog.Logger
}

// Player drains a Queue with a single worker.
type Player struct {
	queue *Queue
	term  Terminal

	delay   time.Duration
	sleep   SleepFunc
	now     func() time.Time
	onEvent func(Event)
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	started     bool
	outstanding int
	drained     chan struct{}
}

// NewPlayer creates a player for term. Call Start to begin draining.
func NewPlayer(term Terminal, opts PlayerOptions) *Player {
	if opts.TypingDelay < 0 {
		opts.TypingDelay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxHistory == 0 {
		opts.MaxHistory = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	drained := make(chan struct{})
	close(drained)

	return &Player{
		queue:   NewQueue(opts.MaxHistory, opts.MaxPending),
		term:    term,
		delay:   opts.TypingDelay,
		sleep:   opts.Sleep,
		now:     opts.Now,
		onEvent: opts.OnEvent,
		logger:  opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		drained: drained,
	}
}

// Start launches the worker. Subsequent calls are no-ops.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	go p.loop()
}

// Enqueue adds a command to the back of the queue without blocking.
func (p *Player) Enqueue(command string) error {
	task := NewTask(command, p.now())

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.queue.Push(task); err != nil {
		return err
	}
	if p.outstanding == 0 {
		p.drained = make(chan struct{})
	}
	p.outstanding++
	p.logger.Debug("auto command queued", "task", task.ID, "command", command)
	return nil
}

// Wait blocks until every enqueued task has finished or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	ch := p.drained
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the in-flight task, drops pending ones and stops the worker.
func (p *Player) Close() error {
	p.cancel()

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}

	for _, task := range p.queue.Close() {
		if task.MarkCanceled(p.now()) {
			p.queue.Finish(task)
			p.emit(Event{TaskID: task.ID, Command: task.Command, Phase: PhaseCanceled})
		}
		p.finishOne()
	}
	return nil
}

// History returns finished tasks, oldest first.
func (p *Player) History() []*Task {
	return p.queue.History()
}

// Pending returns the number of tasks waiting to play.
func (p *Player) Pending() int {
	return p.queue.Len()
}

// =============================================================================
// WORKER
// =============================================================================

func (p *Player) loop() {
	defer close(p.done)
	for {
		task, err := p.queue.Pop(p.ctx)
		if err != nil {
			return
		}
		p.play(task)
		p.finishOne()
	}
}

// play animates typing the command, then runs it.
func (p *Player) play(task *Task) {
	if err := task.MarkStarted(p.now()); err != nil {
		p.logger.Warn("auto command skipped", "task", task.ID, "error", err)
		return
	}

	if err := p.typeOut(task); err != nil {
		p.term.SetTyping("", false)
		if task.MarkCanceled(p.now()) {
			p.queue.Finish(task)
			p.emit(Event{TaskID: task.ID, Command: task.Command, Phase: PhaseCanceled})
		}
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("auto command interrupted", "task", task.ID, "error", err)
		}
		return
	}
	task.MarkTyped(p.now())

	p.term.Run(task.Command)
	_ = task.MarkComplete(p.now())
	p.queue.Finish(task)
	p.emit(Event{TaskID: task.ID, Command: task.Command, Typed: task.Command, Phase: PhaseExecuted})
	p.logger.Debug("auto command executed", "task", task.ID, "command", task.Command, "took", task.Duration())
}

// typeOut reveals the command one rune at a time, then holds the caret.
func (p *Player) typeOut(task *Task) error {
	runes := []rune(task.Command)
	if len(runes) == 0 {
		return nil
	}

	p.term.SetTyping("", true)
	for i := 1; i <= len(runes); i++ {
		if err := p.sleep(p.ctx, p.delay); err != nil {
			return err
		}
		typed := string(runes[:i])
		p.term.SetTyping(typed, true)
		p.emit(Event{TaskID: task.ID, Command: task.Command, Typed: typed, Phase: PhaseTyping})
	}
	if err := p.sleep(p.ctx, 2*p.delay); err != nil {
		return err
	}
	p.term.SetTyping("", false)
	return nil
}

func (p *Player) finishOne() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outstanding == 0 {
		return
	}
	p.outstanding--
	if p.outstanding == 0 {
		close(p.drained)
	}
}

func (p *Player) emit(ev Event) {
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
