// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// recordTimeout bounds one command record write.
const recordTimeout = 2 * time.Second

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

type createSessionRequest struct {
	Mode string `json:"mode"`
}

type runRequest struct {
	Command string `json:"command"`
}

type visibleRequest struct {
	Section string `json:"section" binding:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// sessionResponse describes a web session and its full transcript.
type sessionResponse struct {
	ID         string               `json:"id"`
	Mode       terminal.Mode        `json:"mode"`
	Theme      string               `json:"theme"`
	Triggered  []string             `json:"triggered"`
	Transcript []terminal.EntryView `json:"transcript"`
}

// runResponse carries the entries a command appended. When Cleared is set
// the client must replace its transcript with Entries.
type runResponse struct {
	Entries []terminal.EntryView `json:"entries"`
	Cleared bool                 `json:"cleared"`
	Theme   string               `json:"theme"`
	Mode    terminal.Mode        `json:"mode"`
}

// visibleResponse reports whether a section fired and what it auto-played.
type visibleResponse struct {
	Fired   bool                 `json:"fired"`
	Entries []terminal.EntryView `json:"entries"`
	Mode    terminal.Mode        `json:"mode"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
	Requests int64  `json:"requests"`
	Commands int64  `json:"commands"`
}

func (s *Server) describe(ws *webSession) sessionResponse {
	triggered := ws.controller.TriggeredIDs()
	if triggered == nil {
		triggered = []string{}
	}
	return sessionResponse{
		ID:         ws.ID,
		Mode:       ws.engine.Mode(),
		Theme:      ws.engine.Theme(),
		Triggered:  triggered,
		Transcript: terminal.ViewEntries(ws.engine.Transcript()),
	}
}

// ============================================================================
// CATALOG HANDLERS
// ============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Uptime:   s.stats.Uptime(s.now()).Truncate(time.Second).String(),
		Sessions: s.sessions.Len(),
		Requests: s.stats.Requests(),
		Commands: s.stats.Commands(),
	})
}

func (s *Server) handleCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": terminal.Catalog()})
}

func (s *Server) handleThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes":  terminal.Themes(),
		"default": s.defaultTheme(),
	})
}

func (s *Server) handleSections(c *gin.Context) {
	sections := s.currentBundle().Sections
	if sections == nil {
		sections = []content.Section{}
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (s *Server) defaultTheme() string {
	if terminal.IsKnownTheme(s.termCfg.DefaultTheme) {
		return s.termCfg.DefaultTheme
	}
	return terminal.DefaultTheme
}

// ============================================================================
// SESSION HANDLERS
// ============================================================================

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	modeName := req.Mode
	if modeName == "" {
		modeName = s.termCfg.StartMode
	}
	mode, err := terminal.ParseMode(modeName)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ws, err := s.sessions.Create(s.currentBundle(), terminal.Options{
		Theme:        s.defaultTheme(),
		Mode:         mode,
		HistoryLimit: s.termCfg.HistoryLimit,
	}, s.revealCf)
	if errors.Is(err, ErrTooManySessions) {
		c.Header("Retry-After", "60")
		writeError(c, http.StatusServiceUnavailable, "too many sessions, try again later")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "could not create session")
		return
	}
	c.JSON(http.StatusCreated, s.describe(ws))
}

// session resolves the :id parameter, answering 404 when it is unknown.
func (s *Server) session(c *gin.Context) (*webSession, bool) {
	ws, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return ws, true
}

func (s *Server) handleTranscript(c *gin.Context) {
	ws, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.describe(ws))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		writeError(c, http.StatusNotFound, "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRun(c *gin.Context) {
	ws, ok := s.session(c)
	if !ok {
		return
	}
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Command) > maxCommandLen {
		writeError(c, http.StatusRequestEntityTooLarge, "command too long")
		return
	}

	entries := ws.engine.Run(req.Command)
	resp := runResponse{
		Entries: terminal.ViewEntries(entries),
		Cleared: entries != nil && terminal.Normalize(req.Command) == "clear",
		Theme:   ws.engine.Theme(),
		Mode:    ws.engine.Mode(),
	}
	if entries != nil {
		s.stats.commands.Add(1)
		s.recordCommand(c.Request.Context(), terminal.Normalize(req.Command), ws.engine.Known(req.Command))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleVisible(c *gin.Context) {
	ws, ok := s.session(c)
	if !ok {
		return
	}
	var req visibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "section is required")
		return
	}
	if _, known := s.currentBundle().SectionByID(req.Section); !known {
		writeError(c, http.StatusNotFound, "unknown section")
		return
	}

	fired, entries := ws.reveal(req.Section)
	for _, e := range entries {
		if e.Kind == terminal.EntryCommand {
			s.recordCommand(c.Request.Context(), terminal.Normalize(e.Command), ws.engine.Known(e.Command))
		}
	}
	c.JSON(http.StatusOK, visibleResponse{
		Fired:   fired,
		Entries: terminal.ViewEntries(entries),
		Mode:    ws.engine.Mode(),
	})
}

func (s *Server) handleMode(c *gin.Context) {
	ws, ok := s.session(c)
	if !ok {
		return
	}
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "mode is required")
		return
	}
	mode, err := terminal.ParseMode(req.Mode)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	ws.engine.SetMode(mode)
	c.JSON(http.StatusOK, gin.H{"mode": ws.engine.Mode()})
}

// ============================================================================
// STATS
// ============================================================================

func (s *Server) handleStats(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(c, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}
	since := s.now().AddDate(0, 0, -days)
	stats, err := s.recorder.Stats(c.Request.Context(), since, statsLimit)
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		writeError(c, http.StatusInternalServerError, "stats unavailable")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) recordCommand(ctx context.Context, command string, known bool) {
	if s.recorder == nil || command == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	err := s.recorder.RecordCommand(ctx, storage.CommandRecord{
		Source:    SourceWeb,
		Command:   command,
		Known:     known,
		Timestamp: s.now(),
	})
	if err != nil {
		s.logger.Warn("command not recorded", "error", err)
	}
}
