// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package form

import "testing"

// threeTabForm builds the minimal wizard shape: a required name text
// tab, a required host selection, and a required digits-only port tab.
func threeTabForm(existingNames []string, usedPorts []int) *State {
	name := NewText("Name", true, TextField{Label: "Tunnel name"})
	host := NewSelection("Host", true).
		Choice("a.example.com (a)", "a.example.com").
		Manual()
	port := NewText("Port", true, TextField{Label: "Listen port", DigitsOnly: true})
	return NewState([]*Section{name, host, port}, existingNames, usedPorts)
}

func typeString(st *State, s string) {
	for _, c := range s {
		st.HandleChar(c)
	}
}

func TestSelectionValue(t *testing.T) {
	sec := NewSelection("Host", true).
		Choice("a", "a.example.com").
		Choice("b", "b.example.com").
		Manual().
		Skip()

	if _, ok := sec.Value(); ok {
		t.Error("fresh selection should have no value")
	}

	st := NewState([]*Section{sec}, nil, nil)
	st.item = 1
	st.SelectCurrent()
	if v, ok := sec.Value(); !ok || v != "b.example.com" {
		t.Errorf("Value = (%q, %v), want b.example.com", v, ok)
	}

	// Manual value wins over a prior choice.
	st.item = 2
	st.SetManual("c.example.com")
	if v, _ := sec.Value(); v != "c.example.com" {
		t.Errorf("manual value not applied: %q", v)
	}

	// Skip clears both selection and manual value.
	st.item = 3
	st.SelectCurrent()
	if _, ok := sec.Value(); ok {
		t.Error("Skip should clear the value")
	}
	if sec.Selection.ManualValue != "" {
		t.Error("Skip left a stale manual value")
	}
}

func TestChoiceClearsManualValue(t *testing.T) {
	sec := NewSelection("Host", true).Choice("a", "a.example.com").Manual()
	st := NewState([]*Section{sec}, nil, nil)

	st.item = 1
	st.SetManual("typed.example.com")
	st.item = 0
	st.SelectCurrent()
	if v, _ := sec.Value(); v != "a.example.com" {
		t.Errorf("choice should discard the manual value, got %q", v)
	}
}

func TestTextValue_SingleField(t *testing.T) {
	sec := NewText("Name", true, TextField{Label: "Tunnel name"})
	if _, ok := sec.Value(); ok {
		t.Error("empty field should have no value")
	}
	sec.TextInput.Fields[0].Buffer = "  db  "
	if v, ok := sec.Value(); !ok || v != "db" {
		t.Errorf("Value = (%q, %v), want trimmed 'db'", v, ok)
	}
}

func TestTextValue_TwoFieldsAllOrNothing(t *testing.T) {
	sec := NewText("Ports", true,
		TextField{Label: "Local port", DigitsOnly: true},
		TextField{Label: "Remote port", DigitsOnly: true})

	sec.TextInput.Fields[0].Buffer = "8080"
	if _, ok := sec.Value(); ok {
		t.Error("value should be absent with one field empty")
	}
	sec.TextInput.Fields[1].Buffer = "443"
	if v, ok := sec.Value(); !ok || v != "8080:443" {
		t.Errorf("Value = (%q, %v), want 8080:443", v, ok)
	}
}

func TestDigitsOnlyFiltering(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.tab = 2
	st.item = 0
	typeString(st, "a5x4!32")
	if buf := st.Sections[2].TextInput.Fields[0].Buffer; buf != "5432" {
		t.Errorf("digits-only buffer = %q, want 5432", buf)
	}
}

func TestBackspace(t *testing.T) {
	st := threeTabForm(nil, nil)
	typeString(st, "dbx")
	st.HandleBackspace()
	if buf := st.Sections[0].TextInput.Fields[0].Buffer; buf != "db" {
		t.Errorf("buffer = %q, want db", buf)
	}
	st.HandleBackspace()
	st.HandleBackspace()
	st.HandleBackspace() // empty buffer is a no-op
	if buf := st.Sections[0].TextInput.Fields[0].Buffer; buf != "" {
		t.Errorf("buffer = %q, want empty", buf)
	}
}

func TestConfirmSentinelRoundTrip(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.tab = 1
	st.item = st.Sections[1].OptionCount() - 1

	st.Down()
	if !st.OnConfirm() {
		t.Fatal("Down from the last item should land on confirm")
	}
	st.Down() // no-op on confirm
	if !st.OnConfirm() {
		t.Fatal("Down on confirm should be a no-op")
	}
	st.Up()
	if st.OnConfirm() || st.item != st.Sections[1].OptionCount()-1 {
		t.Errorf("Up from confirm should return to the last item, got item=%d onConfirm=%v",
			st.item, st.OnConfirm())
	}
}

func TestTabNavigationRestoresCursor(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.tab = 1
	st.item = 1 // the Manual option
	st.SetManual("x.example.com")

	st.TabLeft()
	if st.tab != 0 {
		t.Fatalf("tab = %d, want 0", st.tab)
	}
	st.TabRight()
	if st.tab != 1 || st.item != 1 {
		t.Errorf("re-entering tab should restore cursor to selection, got tab=%d item=%d",
			st.tab, st.item)
	}

	// Left from tab 0 and right from the last tab are no-ops.
	st.tab, st.item = 0, 0
	st.TabLeft()
	if st.tab != 0 {
		t.Error("TabLeft from the first tab should be a no-op")
	}
	st.tab = 2
	st.TabRight()
	if st.tab != 2 {
		t.Error("TabRight from the last tab should be a no-op")
	}
}

func TestAdvanceTabFromLastLandsOnConfirm(t *testing.T) {
	st := threeTabForm(nil, nil)
	st.tab = 2
	st.AdvanceTab()
	if !st.OnConfirm() {
		t.Error("AdvanceTab from the last tab should land on confirm")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"my tunnel", true}, // whitespace
		{"prod-db", true},   // collides with existing
		{"db*", true},       // wildcard
		{"db?", true},
		{"", true},
		{"ok-name", false},
	}
	for _, tt := range tests {
		st := threeTabForm([]string{"prod-db"}, nil)
		typeString(st, tt.input)
		ok := st.ValidateCurrentTextTab()
		if ok == tt.wantErr {
			t.Errorf("name %q: valid=%v, want error=%v (err=%q)", tt.input, ok, tt.wantErr, st.Err())
		}
		if tt.wantErr && st.Err() == "" {
			t.Errorf("name %q: rejected without a message", tt.input)
		}
	}
}

func TestValidatePorts(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0", true},
		{"70000", true},
		{"9000", true}, // reserved
		{"", true},
		{"8080", false},
	}
	for _, tt := range tests {
		st := threeTabForm(nil, []int{9000})
		st.tab = 2
		st.item = 0
		typeString(st, tt.input)
		ok := st.ValidateCurrentTextTab()
		if ok == tt.wantErr {
			t.Errorf("port %q: valid=%v, want error=%v (err=%q)", tt.input, ok, tt.wantErr, st.Err())
		}
	}
}

func TestValidationKeepsEnteredText(t *testing.T) {
	st := threeTabForm([]string{"prod-db"}, nil)
	typeString(st, "prod-db")
	if st.ValidateCurrentTextTab() {
		t.Fatal("duplicate name should fail validation")
	}
	if buf := st.Sections[0].TextInput.Fields[0].Buffer; buf != "prod-db" {
		t.Errorf("validation must not discard input, buffer = %q", buf)
	}
	// Typing clears the error.
	st.HandleBackspace()
	if st.Err() != "" {
		t.Error("editing should clear the validation error")
	}
}

func TestReadyRequiresAllRequiredTabs(t *testing.T) {
	st := threeTabForm(nil, nil)
	if st.Ready() {
		t.Fatal("empty form should not be ready")
	}
	typeString(st, "db")
	st.tab, st.item = 1, 0
	st.SelectCurrent()
	if st.Ready() {
		t.Fatal("form with an empty required port tab should not be ready")
	}
	st.tab, st.item = 2, 0
	typeString(st, "5432")
	if !st.Ready() {
		t.Error("form with every required tab filled should be ready")
	}
}

func TestEndToEndThreeTabs(t *testing.T) {
	st := threeTabForm(nil, nil)

	// Name tab: type "db", advance.
	typeString(st, "db")
	if !st.ValidateCurrentTextTab() {
		t.Fatalf("name validation failed: %s", st.Err())
	}
	st.AdvanceTab()

	// Host tab: select the choice, advance.
	if st.Tab() != 1 {
		t.Fatalf("tab = %d, want 1", st.Tab())
	}
	st.SelectCurrent()
	st.AdvanceTab()

	// Port tab: type "5432", advance onto confirm.
	if st.Tab() != 2 {
		t.Fatalf("tab = %d, want 2", st.Tab())
	}
	typeString(st, "5432")
	if !st.ValidateCurrentTextTab() {
		t.Fatalf("port validation failed: %s", st.Err())
	}
	st.AdvanceTab()
	if !st.OnConfirm() {
		t.Fatal("should be on the confirm sentinel")
	}
	if !st.Ready() {
		t.Fatal("form should be ready to confirm")
	}

	want := map[string]string{"Name": "db", "Host": "a.example.com", "Port": "5432"}
	got := st.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Values()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
