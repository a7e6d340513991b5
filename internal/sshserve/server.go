// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sshserve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/crypto/ssh"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/ui/shell"
)

const (
	// handshakeTimeout bounds the SSH handshake of a new connection.
	handshakeTimeout = 10 * time.Second

	// Default window when the client sends no pty-req.
	defaultCols = 80
	defaultRows = 24

	busyMessage = "termfolio is busy, please try again in a minute.\r\n"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Server.
type Options struct {
	// Config is the full configuration. The SSH section sets the address,
	// host key and session limit; the rest drives each shell.
	Config *config.Config

	// Bundle returns the content for a new connection. It is called per
	// connection so reloads reach new visitors.
	Bundle func() *content.Bundle

	// OnCommand is called after every command any visitor runs.
	OnCommand func(command string, known bool)

	Subtitle string
	Logger   *slog.Logger
}

// =============================================================================
// SERVER
// =============================================================================

// Server serves the terminal to SSH clients. Authentication is open: every
// visitor gets a read-only portfolio shell.
type Server struct {
	cfg       *config.Config
	sshConfig *ssh.ServerConfig
	bundle    func() *content.Bundle
	onCommand func(string, bool)
	subtitle  string
	logger    *slog.Logger

	slots chan struct{}

	mu       sync.Mutex
	sessions map[*shell.Session]struct{}
	wg       sync.WaitGroup
}

// New loads or creates the host key and prepares the server.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Bundle == nil {
		b := content.Default()
		opts.Bundle = func() *content.Bundle { return b }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ssh")

	signer, err := LoadOrCreateHostKey(cfg.SSH.HostKeyPath)
	if err != nil {
		return nil, err
	}
	sshConfig := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: "SSH-2.0-termfolio",
	}
	sshConfig.AddHostKey(signer)

	max := cfg.SSH.MaxSessions
	if max <= 0 {
		max = 1
	}
	logger.Debug("ssh host key ready", "fingerprint", ssh.FingerprintSHA256(signer.PublicKey()))

	return &Server{
		cfg:       cfg,
		sshConfig: sshConfig,
		bundle:    opts.Bundle,
		onCommand: opts.OnCommand,
		subtitle:  opts.Subtitle,
		logger:    logger,
		slots:     make(chan struct{}, max),
		sessions:  make(map[*shell.Session]struct{}),
	}, nil
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.SSH.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.SSH.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then ends every
// open shell and waits for them.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("ssh server listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}

	s.mu.Lock()
	for sess := range s.sessions {
		sess.Quit()
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Info("ssh server stopped")
	return nil
}

// Active returns the number of running shells.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))
	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.sshConfig)
	if err != nil {
		s.logger.Debug("ssh handshake failed", "remote", conn.RemoteAddr().String(), "error", err)
		conn.Close()
		return
	}
	_ = conn.SetDeadline(time.Time{})
	defer sconn.Close()
	stop := context.AfterFunc(ctx, func() { sconn.Close() })
	defer stop()

	log := s.logger.With("remote", sconn.RemoteAddr().String(), "user", sconn.User())
	log.Info("ssh connection opened", "client", string(sconn.ClientVersion()))
	go ssh.DiscardRequests(reqs)

	var wg sync.WaitGroup
	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			log.Warn("ssh channel accept failed", "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleChannel(ctx, ch, requests, log)
		}()
	}
	wg.Wait()
	log.Info("ssh connection closed")
}

// =============================================================================
// CHANNEL
// =============================================================================

// handleChannel serves one session channel: it records the pty size, starts
// the shell on "shell" and forwards window changes until the client leaves.
func (s *Server) handleChannel(ctx context.Context, ch ssh.Channel, requests <-chan *ssh.Request, log *slog.Logger) {
	defer ch.Close()

	pty := ptyRequest{Term: "xterm", Columns: defaultCols, Rows: defaultRows}
	var (
		sess *shell.Session
		done = make(chan error, 1)
	)

	for {
		select {
		case req, ok := <-requests:
			if !ok {
				if sess != nil {
					sess.Quit()
					<-done
				}
				return
			}
			switch req.Type {
			case "pty-req":
				p, err := parsePtyRequest(req.Payload)
				if err == nil {
					pty = p
				}
				reply(req, err == nil)
			case "window-change":
				w, err := parseWindowChange(req.Payload)
				if err == nil && sess != nil {
					sess.Resize(w.cols(), w.rows())
				}
				reply(req, err == nil)
			case "shell":
				if sess != nil {
					reply(req, false)
					continue
				}
				if !s.acquire() {
					reply(req, true)
					_, _ = io.WriteString(ch, busyMessage)
					sendExitStatus(ch, 1)
					log.Warn("ssh session refused, at capacity")
					return
				}
				started, err := s.startShell(ctx, ch, pty, done, log)
				if err != nil {
					s.release()
					reply(req, false)
					log.Error("ssh shell failed to start", "error", err)
					return
				}
				sess = started
				reply(req, true)
				sess.Resize(pty.cols(), pty.rows())
			case "env":
				reply(req, true)
			default:
				reply(req, false)
			}

		case err := <-done:
			status := uint32(0)
			if err != nil {
				status = 1
				log.Warn("ssh shell exited with error", "error", err)
			}
			sendExitStatus(ch, status)
			return
		}
	}
}

// startShell builds a shell session on ch and runs it in the background.
// The returned session is registered until it exits.
func (s *Server) startShell(ctx context.Context, ch ssh.Channel, pty ptyRequest, done chan<- error, log *slog.Logger) (*shell.Session, error) {
	renderer := lipgloss.NewRenderer(ch, termenv.WithProfile(colorProfile(pty.Term)), termenv.WithUnsafe())
	renderer.SetHasDarkBackground(true)

	sess, err := shell.NewSession(ctx, shell.SessionOptions{
		Config:    s.cfg,
		Bundle:    s.bundle(),
		Input:     ch,
		Output:    ch,
		Renderer:  renderer,
		OnCommand: s.onCommand,
		Subtitle:  s.subtitle,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	log.Info("ssh shell started", "term", pty.Term, "cols", pty.Columns, "rows", pty.Rows)

	go func() {
		err := sess.Run()
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.release()
		done <- err
	}()
	return sess, nil
}

func (s *Server) acquire() bool {
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	select {
	case <-s.slots:
	default:
	}
}

func reply(req *ssh.Request, ok bool) {
	if req.WantReply {
		_ = req.Reply(ok, nil)
	}
}

func sendExitStatus(ch ssh.Channel, status uint32) {
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
}

// =============================================================================
// PTY PAYLOADS
// =============================================================================

// ptyRequest is the RFC 4254 section 6.2 pty-req payload.
type ptyRequest struct {
	Term    string
	Columns uint32
	Rows    uint32
	Width   uint32
	Height  uint32
	Modes   string
}

// windowChange is the RFC 4254 section 6.7 window-change payload.
type windowChange struct {
	Columns uint32
	Rows    uint32
	Width   uint32
	Height  uint32
}

func parsePtyRequest(payload []byte) (ptyRequest, error) {
	var p ptyRequest
	if err := ssh.Unmarshal(payload, &p); err != nil {
		return ptyRequest{}, fmt.Errorf("pty-req: %w", err)
	}
	return p, nil
}

func parseWindowChange(payload []byte) (windowChange, error) {
	var w windowChange
	if err := ssh.Unmarshal(payload, &w); err != nil {
		return windowChange{}, fmt.Errorf("window-change: %w", err)
	}
	return w, nil
}

func (p ptyRequest) cols() int { return dimension(p.Columns, defaultCols) }
func (p ptyRequest) rows() int { return dimension(p.Rows, defaultRows) }

func (w windowChange) cols() int { return dimension(w.Columns, defaultCols) }
func (w windowChange) rows() int { return dimension(w.Rows, defaultRows) }

// dimension clamps a client-reported size to something drawable.
func dimension(v uint32, fallback int) int {
	switch {
	case v == 0:
		return fallback
	case v > 1000:
		return 1000
	}
	return int(v)
}

// colorProfile picks a color profile from the client's TERM.
func colorProfile(term string) termenv.Profile {
	term = strings.ToLower(term)
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") || strings.Contains(term, "direct"):
		return termenv.TrueColor
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	}
	return termenv.ANSI
}
