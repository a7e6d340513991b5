// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the portfolio terminal over HTTP for browser front
// ends.
//
// Each browser gets a web session holding its own command engine and reveal
// controller. The browser reports section visibility and the server runs the
// section's auto command at once; the page animates typing itself.
//
// # Endpoints
//
//   - GET    /health                    - Liveness and counters
//   - GET    /api/commands              - Command catalog
//   - GET    /api/themes                - Theme tokens
//   - GET    /api/sections              - Narrative sections
//   - POST   /api/sessions              - Start a session
//   - GET    /api/sessions/:id/transcript
//   - POST   /api/sessions/:id/run      - Run a typed command
//   - POST   /api/sessions/:id/visible  - Report a visible section
//   - PUT    /api/sessions/:id/mode     - Switch input mode
//   - DELETE /api/sessions/:id
//   - GET    /api/stats?days=N          - Visitor statistics, when a store is set
//
// # Middleware
//
// Requests pass through panic recovery, security headers, request logging,
// CORS and a per-client token bucket. When tracking is on, visits are
// recorded with the client IP replaced by a salted blake3 digest; requests
// carrying "DNT: 1" are not recorded.
//
// # Usage
//
//	srv, err := server.New(server.Options{
//		Config:   cfg.Server,
//		Terminal: cfg.Terminal,
//		Bundle:   bundle,
//		Recorder: store,
//	})
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx)
package server
