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

package form

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/twbot/mole/internal/term"
)

const (
	pollInterval   = 100 * time.Millisecond
	renderThrottle = 50 * time.Millisecond
)

// Run drives the form on the controlling terminal until the user
// confirms or cancels. On confirm it returns (true, nil); on Escape
// (false, nil). The terminal is restored on every exit path.
func Run(st *State) (confirmed bool, err error) {
	session, err := term.Open()
	if err != nil {
		return false, err
	}
	defer session.Close()

	if err := session.EnterRaw(); err != nil {
		return false, err
	}
	session.EnterAltScreen()

	watcher := term.WatchResize()
	defer watcher.Stop()

	return runLoop(st, session, watcher)
}

func runLoop(st *State, session *term.Session, watcher *term.ResizeWatcher) (bool, error) {
	for {
		render(st, session)
		lastRender := time.Now()

		// Wait for a key, redrawing on timeout, resize, or spurious
		// wakeup. The throttle bounds redraw frequency.
		var key term.Key
		for {
			readable := session.Wait(pollInterval)
			watcher.Pending() // size is re-queried every frame anyway

			if !readable {
				if time.Since(lastRender) >= renderThrottle {
					render(st, session)
					lastRender = time.Now()
				}
				continue
			}
			k, err := term.DecodeKey(session)
			if err != nil {
				if time.Since(lastRender) >= renderThrottle {
					render(st, session)
					lastRender = time.Now()
				}
				continue
			}
			key = k
			break
		}

		if st.IsTextInput() && !st.OnConfirm() {
			switch key.Type {
			case term.KeyChar:
				st.HandleChar(key.Rune)
				continue
			case term.KeyBackspace:
				st.HandleBackspace()
				continue
			}
		}

		switch key.Type {
		case term.KeyArrowLeft:
			st.TabLeft()
		case term.KeyArrowRight:
			st.TabRight()
		case term.KeyArrowUp, term.KeyBackTab:
			st.Up()
		case term.KeyArrowDown:
			st.Down()
		case term.KeyTab:
			if st.IsTextInput() && !st.OnConfirm() {
				if st.ValidateCurrentTextTab() {
					st.AdvanceTab()
				}
			} else {
				st.Down()
			}
		case term.KeyEnter, term.KeyChar:
			// Space doubles as select on selection tabs; other
			// characters are ignored outside text input.
			if key.Type == term.KeyChar && key.Rune != ' ' {
				break
			}
			if st.OnConfirm() {
				if st.Ready() {
					return true, nil
				}
			} else if st.IsTextInput() {
				count := st.current().OptionCount()
				if count > 1 && st.item+1 < count {
					st.Down()
				} else if st.ValidateCurrentTextTab() {
					st.AdvanceTab()
				}
			} else if st.IsManual() {
				if err := manualEntry(st, session); err != nil {
					return false, err
				}
				st.AdvanceTab()
			} else {
				st.SelectCurrent()
				st.AdvanceTab()
			}
		case term.KeyEscape:
			return false, nil
		}
	}
}

func render(st *State, session *term.Session) {
	rows, cols := session.Size()
	Flush(session, Frame(st, rows, cols), rows, cols)
}

// manualEntry leaves raw mode for a conventional line prompt, then
// re-enters it. The full-screen frame is redrawn from scratch on the
// next loop iteration. Empty input keeps the previous value.
func manualEntry(st *State, session *term.Session) error {
	session.WriteString("\x1b[H\x1b[2J\x1b[3J")

	if err := session.LeaveRaw(); err != nil {
		return err
	}
	session.ShowCursor()

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer tty.Close()

	prompt := "  Enter " + st.current().Label + ": "
	if _, err := tty.WriteString(prompt); err != nil {
		return err
	}
	// Cooked mode: the terminal driver handles line editing.
	line, err := bufio.NewReader(tty).ReadString('\n')
	if err != nil {
		return err
	}

	session.HideCursor()
	if err := session.EnterRaw(); err != nil {
		return err
	}

	if val := strings.TrimSpace(line); val != "" {
		st.SetManual(val)
	}
	return nil
}
