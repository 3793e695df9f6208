// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package form

import (
	"strings"
	"testing"

	"github.com/twbot/mole/internal/ui"
)

func init() {
	// Plain text frames make assertions readable.
	ui.DisableColors()
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		total, cursor, max int
		start, end         int
	}{
		{5, 2, 10, 0, 5},   // fits entirely
		{20, 0, 10, 0, 8},  // clamped at the top
		{20, 10, 10, 6, 14},
		{20, 19, 10, 12, 20}, // clamped at the bottom
		{20, 5, 2, 0, 0},     // no room after indicators
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.total, tt.cursor, tt.max)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.total, tt.cursor, tt.max, start, end, tt.start, tt.end)
		}
	}
}

func TestVisibleRangeNeverOverflows(t *testing.T) {
	for total := 1; total < 40; total++ {
		for cursor := 0; cursor < total; cursor++ {
			for max := 3; max < 15; max++ {
				start, end := visibleRange(total, cursor, max)
				if start < 0 || end > total || start > end {
					t.Fatalf("visibleRange(%d, %d, %d) = (%d, %d) out of bounds",
						total, cursor, max, start, end)
				}
				if total > max && (cursor < start || cursor >= end) && end > start {
					t.Fatalf("visibleRange(%d, %d, %d) = (%d, %d) excludes the cursor",
						total, cursor, max, start, end)
				}
			}
		}
	}
}

func TestFrameTooSmall(t *testing.T) {
	st := threeTabForm(nil, nil)
	for _, size := range [][2]int{{10, 80}, {24, 15}, {13, 19}} {
		lines := Frame(st, size[0], size[1])
		if len(lines) != 1 || !strings.Contains(lines[0], "resize to continue") {
			t.Errorf("Frame(%d, %d) should render only the resize prompt, got %q",
				size[0], size[1], lines)
		}
	}
}

func TestFrameStructure(t *testing.T) {
	st := threeTabForm(nil, nil)
	typeString(st, "db")

	lines := Frame(st, 24, 80)
	frame := strings.Join(lines, "\n")

	if !strings.Contains(frame, "New Tunnel") {
		t.Error("frame missing title")
	}
	// The focused tab is bracketed; the others show their markers.
	if !strings.Contains(frame, "[ Name ]") {
		t.Error("frame missing the focused tab brackets")
	}
	if !strings.Contains(frame, "· Host") || !strings.Contains(frame, "· Port") {
		t.Error("required empty tabs should carry the dot marker")
	}
	if !strings.Contains(frame, "Tunnel name:") {
		t.Error("frame missing the text field label")
	}
	if !strings.Contains(frame, "[ Confirm ]") {
		t.Error("frame missing the confirm affordance")
	}
	if !strings.Contains(frame, "esc cancel") {
		t.Error("frame missing the hint line")
	}
}

func TestFrameTabCheckmark(t *testing.T) {
	st := threeTabForm(nil, nil)
	typeString(st, "db")
	st.AdvanceTab()

	frame := strings.Join(Frame(st, 24, 80), "\n")
	if !strings.Contains(frame, "✓ Name") {
		t.Error("a filled tab should carry a check mark in the tab bar")
	}
	if !strings.Contains(frame, "[ Host ]") {
		t.Error("the focused tab should be bracketed")
	}
}

func TestFrameScrollIndicators(t *testing.T) {
	sec := NewSelection("Host", true)
	for i := 0; i < 40; i++ {
		sec.Choice(strings.Repeat("h", 3), "value")
	}
	st := NewState([]*Section{sec, NewText("Port", true, TextField{Label: "Port"})}, nil, nil)
	st.item = 20

	frame := strings.Join(Frame(st, 20, 80), "\n")
	if !strings.Contains(frame, "more") {
		t.Error("long option list should show scroll indicators")
	}
	if !strings.Contains(frame, "↑") || !strings.Contains(frame, "↓") {
		t.Error("a mid-list cursor should show indicators on both sides")
	}
}

func TestFrameValidationError(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.ValidateCurrentTextTab() // empty name

	frame := strings.Join(Frame(st, 24, 80), "\n")
	if !strings.Contains(frame, "cannot be empty") {
		t.Error("frame should show the validation error")
	}
}

func TestFrameConfirmStates(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.onConfirm = true

	frame := strings.Join(Frame(st, 24, 80), "\n")
	if !strings.Contains(frame, "[ Fill required tabs ]") {
		t.Error("unready confirm should show the fill-required hint")
	}

	typeString2 := func(tab int, s string) {
		st.tab = tab
		st.onConfirm = false
		typeString(st, s)
	}
	typeString2(0, "db")
	st.tab, st.item = 1, 0
	st.SelectCurrent()
	typeString2(2, "5432")
	st.onConfirm = true

	frame = strings.Join(Frame(st, 24, 80), "\n")
	if !strings.Contains(frame, "› [ Confirm ]") {
		t.Error("ready confirm should be highlighted and actionable")
	}
}

// frameRecorder captures Flush output.
type frameRecorder struct{ b strings.Builder }

func (r *frameRecorder) WriteString(s string) { r.b.WriteString(s) }

func TestFlushUsesAbsoluteAddressing(t *testing.T) {
	var rec frameRecorder
	Flush(&rec, []string{"line one", "line two"}, 4, 80)
	out := rec.b.String()

	if !strings.HasPrefix(out, "\x1b[r") {
		t.Error("flush should reset the scroll region first")
	}
	for _, want := range []string{"\x1b[1;1H\x1b[2K", "\x1b[2;1H\x1b[2K", "\x1b[3;1H\x1b[2K", "\x1b[4;1H\x1b[2K"} {
		if !strings.Contains(out, want) {
			t.Errorf("flush missing per-row addressing %q", want)
		}
	}
	if !strings.Contains(out, "line one\x1b[0m") {
		t.Error("content rows should reset attributes after the text")
	}
}

func TestFlushTruncatesLongLines(t *testing.T) {
	var rec frameRecorder
	long := strings.Repeat("x", 200)
	Flush(&rec, []string{long}, 1, 20)
	if strings.Contains(rec.b.String(), strings.Repeat("x", 21)) {
		t.Error("lines must be truncated to the terminal width, never wrapped")
	}
}
