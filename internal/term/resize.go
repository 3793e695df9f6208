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

package term

import (
	"os"
	"os/signal"
	"syscall"
)

// ResizeWatcher delivers SIGWINCH as a single-slot channel. The channel
// is advisory only: the render loop re-queries terminal size on every
// frame, so a dropped notification at worst delays a redraw by one poll
// interval.
type ResizeWatcher struct {
	ch chan os.Signal
}

// WatchResize installs a SIGWINCH listener.
func WatchResize() *ResizeWatcher {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	return &ResizeWatcher{ch: ch}
}

// Pending reports and clears a queued resize notification.
func (w *ResizeWatcher) Pending() bool {
	select {
	case <-w.ch:
		return true
	default:
		return false
	}
}

// Stop removes the signal listener.
func (w *ResizeWatcher) Stop() {
	signal.Stop(w.ch)
}
