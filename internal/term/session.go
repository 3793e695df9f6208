// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package term drives the controlling terminal directly: raw mode,
// alternate screen, byte-level key decoding, and SIGWINCH-aware size
// queries. It deliberately avoids any TUI framework so the form engine
// owns every escape sequence it emits.
package term

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// ErrNoKey is returned when the terminal has no byte available yet.
// It is not an error condition; the caller's poll loop simply retries.
var ErrNoKey = errors.New("no key available")

// Session owns the controlling terminal for one wizard invocation.
// All mode changes it makes are undone by Close, which is safe to call
// on every exit path and more than once.
type Session struct {
	fd        int
	orig      unix.Termios
	raw       bool
	altScreen bool
	hidden    bool
}

// Open acquires /dev/tty for read+write and puts the descriptor into
// non-blocking mode so reads never hang on a spurious poll wakeup.
func Open() (*Session, error) {
	fd, err := unix.Open("/dev/tty", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev/tty: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set /dev/tty non-blocking: %w", err)
	}
	return &Session{fd: fd}, nil
}

// Fd returns the raw terminal descriptor.
func (s *Session) Fd() int { return s.fd }

// EnterRaw snapshots the current terminal mode and applies a raw
// configuration: no line buffering, no echo, no signal keys. Output
// post-processing stays on so "\n" still maps to "\r\n".
func (s *Session) EnterRaw() error {
	if s.raw {
		return nil
	}
	orig, err := unix.IoctlGetTermios(s.fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("failed to read terminal attributes: %w", err)
	}
	s.orig = *orig

	raw := *orig
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &raw); err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	s.raw = true
	return nil
}

// LeaveRaw restores the mode captured by EnterRaw. Calling it when raw
// mode is not active is a no-op.
func (s *Session) LeaveRaw() error {
	if !s.raw {
		return nil
	}
	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &s.orig); err != nil {
		return fmt.Errorf("failed to restore terminal mode: %w", err)
	}
	s.raw = false
	return nil
}

// EnterAltScreen switches to the alternate screen buffer and hides the
// cursor.
func (s *Session) EnterAltScreen() {
	if s.altScreen {
		return
	}
	s.WriteString("\x1b[?25l\x1b[?1049h")
	s.altScreen = true
	s.hidden = true
}

// LeaveAltScreen returns to the main screen buffer and shows the cursor.
func (s *Session) LeaveAltScreen() {
	if !s.altScreen {
		return
	}
	s.WriteString("\x1b[?1049l\x1b[?25h")
	s.altScreen = false
	s.hidden = false
}

// HideCursor hides the cursor without touching the screen buffer.
func (s *Session) HideCursor() {
	s.WriteString("\x1b[?25l")
	s.hidden = true
}

// ShowCursor makes the cursor visible again.
func (s *Session) ShowCursor() {
	s.WriteString("\x1b[?25h")
	s.hidden = false
}

// Close restores every mode change and releases the descriptor.
// Idempotent: the first call wins, later calls do nothing.
func (s *Session) Close() error {
	if s.fd < 0 {
		return nil
	}
	s.LeaveAltScreen()
	if s.hidden {
		s.ShowCursor()
	}
	err := s.LeaveRaw()
	unix.Close(s.fd)
	s.fd = -1
	return err
}

// Size queries the terminal dimensions, falling back to 24x80 when the
// ioctl fails. Called fresh per frame so a resize between frames is
// always picked up.
func (s *Session) Size() (rows, cols int) {
	ws, err := unix.IoctlGetWinsize(s.fd, unix.TIOCGWINSZ)
	if err != nil || ws.Row == 0 || ws.Col == 0 {
		return 24, 80
	}
	return int(ws.Row), int(ws.Col)
}

// WriteString writes all bytes to the terminal, retrying on EINTR,
// partial writes, and EAGAIN (the descriptor is non-blocking).
func (s *Session) WriteString(data string) {
	buf := []byte(data)
	for len(buf) > 0 {
		n, err := unix.Write(s.fd, buf)
		if n > 0 {
			buf = buf[n:]
			continue
		}
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			pfd := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLOUT}}
			unix.Poll(pfd, 100)
			continue
		default:
			return
		}
	}
}

// Wait blocks until the terminal is readable or the timeout elapses.
// Returns false on timeout, EINTR (e.g. SIGWINCH), or poll error; the
// caller treats all three the same and re-renders.
func (s *Session) Wait(timeout time.Duration) bool {
	pfd := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
	return err == nil && n > 0
}

// ReadByte reads one byte, retrying only on EINTR. A read that would
// block returns ErrNoKey so the caller can distinguish "no input yet"
// from real errors.
func (s *Session) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := unix.Read(s.fd, buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EAGAIN) {
				return 0, ErrNoKey
			}
			return 0, err
		}
		return 0, errors.New("unexpected EOF from terminal")
	}
}

// ReadByteTimeout waits up to timeout for a byte. The second return is
// false on timeout or when poll reported readiness but the read would
// still block.
func (s *Session) ReadByteTimeout(timeout time.Duration) (byte, bool) {
	if !s.Wait(timeout) {
		return 0, false
	}
	b, err := s.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}
