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
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/twbot/mole/internal/ui"
)

// Fixed vertical chrome: title, blank, tab bar, separator, blank before
// content, blank after, confirm, blank, dotted separator, summary,
// blank, hint line.
const chromeRows = 12

// minRows/minCols gate rendering; below them only a resize prompt fits.
const (
	minRows = 14
	minCols = 20
)

// visibleRange computes the scrollable window over a long option list,
// centered on the cursor and clamped to the list bounds. Two rows are
// reserved for the "more above/below" indicators.
func visibleRange(total, cursor, maxHeight int) (start, end int) {
	if total <= maxHeight {
		return 0, total
	}
	window := maxHeight - 2
	if window <= 0 {
		return 0, 0
	}
	start = cursor - window/2
	if start < 0 {
		start = 0
	}
	if start+window > total {
		start = total - window
	}
	return start, start + window
}

// Frame builds the full screen as one line per terminal row, truncated
// to the terminal width. It reads the state without mutating it.
func Frame(st *State, rows, cols int) []string {
	if rows < minRows || cols < minCols {
		return []string{"  " + ui.Colorize("Terminal too small — resize to continue", ui.Dim)}
	}

	var out []string
	out = append(out, "  "+ui.Colorize("New Tunnel", ui.Bold))
	out = append(out, "")
	out = append(out, tabBar(st))

	sep := cols - 4
	if sep < 0 {
		sep = 0
	}
	out = append(out, "  "+ui.Colorize(strings.Repeat("─", sep), ui.Dim))
	out = append(out, "")

	maxContent := rows - chromeRows
	if st.err != "" {
		maxContent -= 2
	}
	if maxContent < 0 {
		maxContent = 0
	}

	sec := st.current()
	if sec.Selection != nil {
		out = append(out, selectionLines(st, sec.Selection, maxContent)...)
	} else {
		out = append(out, textInputLines(st, sec.TextInput)...)
	}

	if st.err != "" {
		out = append(out, "", "    "+ui.Colorize(st.err, ui.Red))
	}

	out = append(out, "")
	switch {
	case st.onConfirm && st.Ready():
		out = append(out, "    "+ui.Colorize("›", ui.Cyan)+" "+ui.Colorize("[ Confirm ]", ui.Green+ui.Bold))
	case st.onConfirm:
		out = append(out, "    "+ui.Colorize("›", ui.Cyan)+" "+ui.Colorize("[ Fill required tabs ]", ui.Yellow))
	default:
		out = append(out, "      "+ui.Colorize("[ Confirm ]", ui.Dim))
	}

	out = append(out, "")
	out = append(out, "  "+ui.Colorize(strings.Repeat("┄", sep), ui.Dim))
	out = append(out, "  "+buildSummary(st))
	out = append(out, "")
	out = append(out, "  "+ui.Colorize("←→ tab  ↑↓ choose  ⏎ select  esc cancel", ui.Dim))

	return out
}

func tabBar(st *State) string {
	var b strings.Builder
	b.WriteString("  ")
	for si, sec := range st.Sections {
		if si > 0 {
			b.WriteString("  ")
		}
		active := !st.onConfirm && st.tab == si
		_, hasValue := sec.Value()
		switch {
		case active:
			b.WriteString(ui.Colorize("[ "+sec.Label+" ]", ui.Cyan+ui.Bold))
		case hasValue:
			b.WriteString(ui.Colorize("✓", ui.Green) + " " + ui.Colorize(sec.Label, ui.Green))
		case sec.Required:
			b.WriteString(ui.Colorize("·", ui.Yellow) + " " + ui.Colorize(sec.Label, ui.Yellow))
		default:
			b.WriteString(ui.Colorize(sec.Label, ui.Dim))
		}
	}
	return b.String()
}

func selectionLines(st *State, sel *Selection, maxContent int) []string {
	var out []string
	total := len(sel.Options)
	cursor := st.item
	if st.onConfirm && total > 0 {
		cursor = total - 1
	}
	start, end := visibleRange(total, cursor, maxContent)

	if start > 0 {
		out = append(out, "    "+ui.Colorize(fmt.Sprintf("↑ %d more", start), ui.Dim))
	}
	for oi := start; oi < end; oi++ {
		opt := sel.Options[oi]
		atCursor := !st.onConfirm && st.item == oi
		selected := sel.Selected == oi

		prefix := "      "
		if selected {
			prefix = "    " + ui.Colorize("✓", ui.Green) + " "
		} else if atCursor {
			prefix = "    " + ui.Colorize("›", ui.Cyan) + " "
		}

		label := opt.Label
		if selected && opt.Kind == KindManual && sel.ManualValue != "" {
			label = opt.Label + ": " + sel.ManualValue
		}

		switch {
		case atCursor && selected:
			label = ui.Colorize(label, ui.Green+ui.Bold)
		case atCursor:
			label = ui.Colorize(label, ui.Bold)
		case selected:
			label = ui.Colorize(label, ui.Green)
		case opt.Kind != KindChoice:
			label = ui.Colorize(label, ui.Dim)
		}
		out = append(out, prefix+label)
	}
	if end < total {
		out = append(out, "    "+ui.Colorize(fmt.Sprintf("↓ %d more", total-end), ui.Dim))
	}
	return out
}

func textInputLines(st *State, ti *TextInput) []string {
	var out []string
	maxLabel := 0
	for _, f := range ti.Fields {
		if len(f.Label) > maxLabel {
			maxLabel = len(f.Label)
		}
	}
	for fi, field := range ti.Fields {
		active := !st.onConfirm && fi == ti.Active
		pad := strings.Repeat(" ", maxLabel-len(field.Label)+1)
		if active {
			out = append(out, "    "+ui.Colorize("›", ui.Cyan)+" "+
				ui.Colorize(field.Label, ui.Cyan+ui.Bold)+":"+pad+
				field.Buffer+ui.Colorize("_", ui.Dim))
		} else {
			out = append(out, "      "+
				ui.Colorize(field.Label, ui.Dim)+":"+pad+
				ui.Colorize(field.Buffer, ui.Dim))
		}
	}
	return out
}

// buildSummary reconstructs the one-line cross-tab summary from every
// tab's current value. Missing required values show as "???".
func buildSummary(st *State) string {
	missing := ui.Colorize("???", ui.Yellow)
	val := func(i int) string {
		if v, ok := st.Sections[i].Value(); ok {
			return v
		}
		return missing
	}
	opt := func(i int) (string, bool) {
		return st.Sections[i].Value()
	}

	arrow := ui.Colorize("→", ui.Dim)
	dot := ui.Colorize("·", ui.Dim)

	// Forms other than the tunnel wizard layout get a plain value list.
	if len(st.Sections) < 7 {
		var parts []string
		for _, sec := range st.Sections {
			if v, ok := sec.Value(); ok {
				parts = append(parts, v)
			} else if sec.Required {
				parts = append(parts, missing)
			}
		}
		return strings.Join(parts, " "+dot+" ")
	}

	parts := []string{val(0)}
	if g, ok := opt(1); ok {
		parts = append(parts, ui.Colorize("["+g+"]", ui.Dim))
	}
	parts = append(parts, arrow, val(2), dot, val(3))
	if id, ok := opt(4); ok {
		parts = append(parts, dot, id)
	}
	if pj, ok := opt(5); ok {
		parts = append(parts, dot, pj)
	}
	parts = append(parts, dot)

	last := len(st.Sections) - 1
	if len(st.Sections) == 7 {
		// Dynamic forward: a single listen-port field.
		port := missing
		if p, ok := st.Sections[last].TextFieldValue(0); ok {
			port = p
		}
		parts = append(parts, "D:"+port)
	} else {
		forward := "localhost"
		if f, ok := opt(6); ok {
			forward = f
		}
		port1, port2 := missing, missing
		if p, ok := st.Sections[last].TextFieldValue(0); ok {
			port1 = p
		}
		if p, ok := st.Sections[last].TextFieldValue(1); ok {
			port2 = p
		}
		parts = append(parts, forward+":"+port1, arrow, port2)
	}
	return strings.Join(parts, " ")
}

// Flush writes a frame with one absolute cursor-position-and-clear per
// terminal row. A scroll-relative write would corrupt after a resize in
// the alternate screen; absolute addressing never does.
func Flush(w interface{ WriteString(string) }, lines []string, rows, cols int) {
	var frame strings.Builder
	frame.WriteString("\x1b[r") // reset scroll region to full screen
	for row := 1; row <= rows; row++ {
		fmt.Fprintf(&frame, "\x1b[%d;1H\x1b[2K", row)
		if row-1 < len(lines) {
			frame.WriteString(ansi.Truncate(lines[row-1], cols, ""))
			frame.WriteString("\x1b[0m") // erase must not inherit attrs
		}
	}
	w.WriteString(frame.String())
}
