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

import "time"

// KeyType identifies a decoded keystroke.
type KeyType int

const (
	KeyUnknown KeyType = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyEscape
	KeyChar
)

// Key is one decoded keystroke. Rune is set only for KeyChar.
type Key struct {
	Type KeyType
	Rune rune
}

// escapeWait bounds how long the decoder waits for the bytes following
// an ESC before deciding the user pressed a bare Escape.
const escapeWait = 50 * time.Millisecond

// byteSource is the input side of a Session, split out so the decoder
// can be tested against scripted byte streams.
type byteSource interface {
	ReadByte() (byte, error)
	ReadByteTimeout(timeout time.Duration) (byte, bool)
}

// DecodeKey reads exactly one key from src, consuming as many bytes as
// the sequence needs. A read with no data yet returns ErrNoKey without
// consuming anything.
func DecodeKey(src byteSource) (Key, error) {
	b, err := src.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch {
	case b == '\r' || b == '\n':
		return Key{Type: KeyEnter}, nil
	case b == '\t':
		return Key{Type: KeyTab}, nil
	case b == 0x7f || b == 0x08:
		return Key{Type: KeyBackspace}, nil
	case b == 0x1b:
		return decodeEscape(src), nil
	case b >= 0x01 && b <= 0x1a:
		return Key{Type: KeyUnknown}, nil
	case b >= ' ' && b <= '~':
		return Key{Type: KeyChar, Rune: rune(b)}, nil
	default:
		return Key{Type: KeyUnknown}, nil
	}
}

// decodeEscape handles everything after a 0x1b byte: a bare Escape, a
// CSI sequence, or the application-keypad arrow encoding.
func decodeEscape(src byteSource) Key {
	b, ok := src.ReadByteTimeout(escapeWait)
	if !ok {
		return Key{Type: KeyEscape}
	}
	switch b {
	case '[':
		return decodeCSI(src)
	case 'O':
		if b, ok := src.ReadByteTimeout(escapeWait); ok {
			if k, ok := arrowKey(b); ok {
				return k
			}
		}
		return Key{Type: KeyUnknown}
	default:
		// Alt+key
		return Key{Type: KeyUnknown}
	}
}

func decodeCSI(src byteSource) Key {
	b, ok := src.ReadByteTimeout(escapeWait)
	if !ok {
		return Key{Type: KeyUnknown}
	}
	if k, ok := arrowKey(b); ok {
		return k
	}
	if b == 'Z' {
		return Key{Type: KeyBackTab}
	}
	if b >= '0' && b <= '9' {
		// Parameterized sequence like \x1b[3~ or \x1b[1;5C — drain to
		// the final byte so parameters are not replayed as keystrokes.
		last := b
		for last < 0x40 || last > 0x7e {
			next, ok := src.ReadByteTimeout(escapeWait)
			if !ok {
				break
			}
			last = next
		}
	}
	return Key{Type: KeyUnknown}
}

func arrowKey(b byte) (Key, bool) {
	switch b {
	case 'A':
		return Key{Type: KeyArrowUp}, true
	case 'B':
		return Key{Type: KeyArrowDown}, true
	case 'C':
		return Key{Type: KeyArrowRight}, true
	case 'D':
		return Key{Type: KeyArrowLeft}, true
	}
	return Key{}, false
}
