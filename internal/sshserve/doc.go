// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sshserve serves the portfolio shell over SSH, so visitors can run
// `ssh -p 2222 host` and get the same terminal as the local TUI.
//
// Each session channel gets its own engine, auto-play worker and lipgloss
// renderer sized from the client's pty-req. Window changes are forwarded to
// the running program. The host key is an ed25519 key generated on first
// start and stored with 0600 permissions.
package sshserve
