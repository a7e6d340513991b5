// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sshserve

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/jeranaias/termfolio/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// HOST KEY TESTS
// =============================================================================

func TestLoadOrCreateHostKey_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "host_ed25519")

	first, err := LoadOrCreateHostKey(path)
	require.NoError(t, err)
	require.Equal(t, ssh.KeyAlgoED25519, first.PublicKey().Type())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dir, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dir.Mode().Perm())

	second, err := LoadOrCreateHostKey(path)
	require.NoError(t, err)
	require.Equal(t, first.PublicKey().Marshal(), second.PublicKey().Marshal())
}

func TestLoadOrCreateHostKey_Ephemeral(t *testing.T) {
	a, err := LoadOrCreateHostKey("")
	require.NoError(t, err)
	b, err := LoadOrCreateHostKey("")
	require.NoError(t, err)
	require.NotEqual(t, a.PublicKey().Marshal(), b.PublicKey().Marshal())
}

func TestLoadOrCreateHostKey_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, err := LoadOrCreateHostKey(path)
	require.Error(t, err)
}

// =============================================================================
// PAYLOAD TESTS
// =============================================================================

func TestParsePtyRequest(t *testing.T) {
	payload := ssh.Marshal(ptyRequest{Term: "xterm-256color", Columns: 120, Rows: 40, Modes: ""})

	p, err := parsePtyRequest(payload)
	require.NoError(t, err)
	require.Equal(t, "xterm-256color", p.Term)
	require.Equal(t, 120, p.cols())
	require.Equal(t, 40, p.rows())

	_, err = parsePtyRequest([]byte{0, 1})
	require.Error(t, err)
}

func TestParseWindowChange(t *testing.T) {
	w, err := parseWindowChange(ssh.Marshal(windowChange{Columns: 0, Rows: 5000}))
	require.NoError(t, err)
	require.Equal(t, defaultCols, w.cols())
	require.Equal(t, 1000, w.rows())
}

func TestColorProfile(t *testing.T) {
	tests := []struct {
		term string
		want termenv.Profile
	}{
		{"", termenv.Ascii},
		{"dumb", termenv.Ascii},
		{"xterm", termenv.ANSI},
		{"xterm-256color", termenv.ANSI256},
		{"xterm-direct", termenv.TrueColor},
		{"alacritty-truecolor", termenv.TrueColor},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, colorProfile(tt.term), tt.term)
	}
}

func TestSlots(t *testing.T) {
	cfg := config.Default()
	cfg.SSH.MaxSessions = 2
	s, err := New(Options{Config: cfg, Logger: testLogger()})
	require.NoError(t, err)

	require.True(t, s.acquire())
	require.True(t, s.acquire())
	require.False(t, s.acquire())
	s.release()
	require.True(t, s.acquire())
}

// =============================================================================
// END-TO-END TESTS
// =============================================================================

// syncBuffer collects remote output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startServer(t *testing.T, maxSessions int) (*Server, string, func()) {
	t.Helper()
	cfg := config.Default()
	cfg.SSH.MaxSessions = maxSessions
	cfg.Terminal.AltScreen = false

	s, err := New(Options{Config: cfg, Logger: testLogger()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	stop := func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("ssh server did not stop")
		}
	}
	return s, ln.Addr().String(), stop
}

func dial(t *testing.T, addr string) *ssh.Client {
	t.Helper()
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            "visitor",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestServe_ShellRoundTrip(t *testing.T) {
	s, addr, stop := startServer(t, 4)
	defer stop()

	client := dial(t, addr)
	defer client.Close()

	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	out := &syncBuffer{}
	sess.Stdout = out
	stdin, err := sess.StdinPipe()
	require.NoError(t, err)

	require.NoError(t, sess.RequestPty("xterm-256color", 30, 100, ssh.TerminalModes{}))
	require.NoError(t, sess.Shell())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "visitor@termfolio")
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return s.Active() == 1 }, time.Second, 10*time.Millisecond)

	// q quits scroll mode.
	_, err = stdin.Write([]byte("q"))
	require.NoError(t, err)

	waitErr := make(chan error, 1)
	go func() { waitErr <- sess.Wait() }()
	select {
	case err := <-waitErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
	require.Eventually(t, func() bool { return s.Active() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServe_AtCapacity(t *testing.T) {
	s, addr, stop := startServer(t, 1)
	defer stop()

	first := dial(t, addr)
	defer first.Close()
	a, err := first.NewSession()
	require.NoError(t, err)
	defer a.Close()
	a.Stdout = io.Discard
	require.NoError(t, a.RequestPty("xterm", 24, 80, ssh.TerminalModes{}))
	require.NoError(t, a.Shell())
	require.Eventually(t, func() bool { return s.Active() == 1 }, 5*time.Second, 10*time.Millisecond)

	second := dial(t, addr)
	defer second.Close()
	b, err := second.NewSession()
	require.NoError(t, err)
	defer b.Close()
	out := &syncBuffer{}
	b.Stdout = out
	require.NoError(t, b.Shell())

	err = b.Wait()
	var exitErr *ssh.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitStatus())
	require.Contains(t, out.String(), "busy")
}

func TestServe_RejectsNonSessionChannels(t *testing.T) {
	_, addr, stop := startServer(t, 1)
	defer stop()

	client := dial(t, addr)
	defer client.Close()

	_, _, err := client.OpenChannel("direct-tcpip", nil)
	var openErr *ssh.OpenChannelError
	require.ErrorAs(t, err, &openErr)
	require.Equal(t, ssh.UnknownChannelType, openErr.Reason)
}
