// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"time"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/tasks"
)

// =============================================================================
// ANIMATION MESSAGES
// =============================================================================

// FrameMsg drives parallax, entrance slides and the typing caret.
type FrameMsg struct {
	Time time.Time
}

// =============================================================================
// AUTO-PLAY MESSAGES
// =============================================================================

// PlayerEventMsg forwards auto-play progress from the player goroutine.
type PlayerEventMsg struct {
	tasks.Event
}

// =============================================================================
// CONTENT MESSAGES
// =============================================================================

// ContentReloadedMsg delivers a re-read content file.
type ContentReloadedMsg struct {
	Bundle *content.Bundle
}

// =============================================================================
// TRANSCRIPT MESSAGES
// =============================================================================

// TranscriptSavedMsg reports the result of a ctrl+s save.
type TranscriptSavedMsg struct {
	ID    string
	Error error
}

// statusClearMsg clears a transient status message if it is still current.
type statusClearMsg struct {
	seq int
}
