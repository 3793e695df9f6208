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

// Package form is a single-screen, multi-tab input wizard rendered
// straight onto the raw terminal. Each tab holds either a selectable
// option list or text fields; values are computed on demand from the
// current state, never cached.
package form

import "strings"

// OptionKind distinguishes the three behaviors of a selection option.
type OptionKind int

const (
	// KindChoice carries a fixed value applied when selected.
	KindChoice OptionKind = iota
	// KindManual prompts for a free-form value via a line editor.
	KindManual
	// KindSkip clears the tab's value.
	KindSkip
)

// Option is one entry in a Selection tab.
type Option struct {
	Label string
	Kind  OptionKind
	Value string // set only for KindChoice
}

// TextField is one input line in a TextInput tab.
type TextField struct {
	Label      string
	Buffer     string
	DigitsOnly bool
}

// Selection holds an ordered option list. ManualValue is meaningful
// only while the selected option is KindManual; Skip clears both.
type Selection struct {
	Options     []Option
	Selected    int // -1 when nothing selected
	ManualValue string
}

// TextInput holds one or more text fields and the focused field index.
type TextInput struct {
	Fields []TextField
	Active int
}

// Section is one tab of the form. Exactly one of Selection/TextInput
// is non-nil.
type Section struct {
	Label     string
	Required  bool
	Selection *Selection
	TextInput *TextInput
}

// NewSelection builds an empty selection tab.
func NewSelection(label string, required bool) *Section {
	return &Section{
		Label:     label,
		Required:  required,
		Selection: &Selection{Selected: -1},
	}
}

// NewText builds a text tab from its fields.
func NewText(label string, required bool, fields ...TextField) *Section {
	return &Section{
		Label:     label,
		Required:  required,
		TextInput: &TextInput{Fields: fields},
	}
}

// Choice appends a fixed-value option.
func (s *Section) Choice(label, value string) *Section {
	if s.Selection != nil {
		s.Selection.Options = append(s.Selection.Options, Option{Label: label, Kind: KindChoice, Value: value})
	}
	return s
}

// Manual appends the free-form entry option.
func (s *Section) Manual() *Section {
	if s.Selection != nil {
		s.Selection.Options = append(s.Selection.Options, Option{Label: "Enter manually...", Kind: KindManual})
	}
	return s
}

// Skip appends the "None" option.
func (s *Section) Skip() *Section {
	if s.Selection != nil {
		s.Selection.Options = append(s.Selection.Options, Option{Label: "None", Kind: KindSkip})
	}
	return s
}

// WithDefault pre-selects an option by index.
func (s *Section) WithDefault(idx int) *Section {
	if s.Selection != nil && idx >= 0 && idx < len(s.Selection.Options) {
		s.Selection.Selected = idx
	}
	return s
}

// OptionCount is the number of navigable items on the tab.
func (s *Section) OptionCount() int {
	if s.Selection != nil {
		return len(s.Selection.Options)
	}
	return len(s.TextInput.Fields)
}

// Value resolves the tab's current value. Selection: the manual value
// if set, else the selected choice's value. A single text field yields
// its trimmed buffer; multiple fields yield a ":"-joined composite only
// when every field is non-empty.
func (s *Section) Value() (string, bool) {
	if sel := s.Selection; sel != nil {
		if sel.ManualValue != "" {
			return sel.ManualValue, true
		}
		if sel.Selected >= 0 && sel.Selected < len(sel.Options) {
			opt := sel.Options[sel.Selected]
			if opt.Kind == KindChoice {
				return opt.Value, true
			}
		}
		return "", false
	}

	fields := s.TextInput.Fields
	if len(fields) == 1 {
		val := strings.TrimSpace(fields[0].Buffer)
		return val, val != ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		val := strings.TrimSpace(f.Buffer)
		if val == "" {
			return "", false
		}
		parts[i] = val
	}
	return strings.Join(parts, ":"), true
}

// TextFieldValue returns the trimmed buffer of one field of a text tab.
func (s *Section) TextFieldValue(idx int) (string, bool) {
	if s.TextInput == nil || idx < 0 || idx >= len(s.TextInput.Fields) {
		return "", false
	}
	val := strings.TrimSpace(s.TextInput.Fields[idx].Buffer)
	return val, val != ""
}

// State is the whole form: its sections plus navigation focus. The
// focus is (tab, item) or the confirm sentinel past the last item.
type State struct {
	Sections []*Section

	tab       int
	item      int
	onConfirm bool

	existingNames []string
	usedPorts     []int
	err           string
}

// NewState builds a form over the given sections. existingNames and
// usedPorts feed the uniqueness checks on the name and ports tabs.
func NewState(sections []*Section, existingNames []string, usedPorts []int) *State {
	return &State{
		Sections:      sections,
		existingNames: existingNames,
		usedPorts:     usedPorts,
	}
}

// Tab returns the focused tab index.
func (st *State) Tab() int { return st.tab }

// OnConfirm reports whether focus sits on the confirm sentinel.
func (st *State) OnConfirm() bool { return st.onConfirm }

// Err returns the current validation error, if any.
func (st *State) Err() string { return st.err }

func (st *State) current() *Section { return st.Sections[st.tab] }

// restoreCursor returns the item focus for the current tab: its
// selected option or active field, or 0.
func (st *State) restoreCursor() int {
	sec := st.current()
	if sec.Selection != nil {
		if sec.Selection.Selected >= 0 {
			return sec.Selection.Selected
		}
		return 0
	}
	return sec.TextInput.Active
}

// TabLeft moves one tab to the left.
func (st *State) TabLeft() {
	if st.tab > 0 {
		st.onConfirm = false
		st.err = ""
		st.tab--
		st.item = st.restoreCursor()
	}
}

// TabRight moves one tab to the right.
func (st *State) TabRight() {
	if st.tab+1 < len(st.Sections) {
		st.onConfirm = false
		st.err = ""
		st.tab++
		st.item = st.restoreCursor()
	}
}

func (st *State) syncActiveField() {
	if ti := st.current().TextInput; ti != nil {
		ti.Active = st.item
	}
}

// Up moves focus up one item, or off the confirm sentinel back onto
// the tab's last item.
func (st *State) Up() {
	if st.onConfirm {
		st.onConfirm = false
		st.item = st.current().OptionCount() - 1
		if st.item < 0 {
			st.item = 0
		}
		st.syncActiveField()
		return
	}
	if st.item > 0 {
		st.item--
		st.syncActiveField()
	}
}

// Down moves focus down one item, rolling onto the confirm sentinel
// past the last item.
func (st *State) Down() {
	if st.onConfirm {
		return
	}
	if st.item+1 < st.current().OptionCount() {
		st.item++
		st.syncActiveField()
	} else {
		st.onConfirm = true
	}
}

// AdvanceTab moves to the next tab, or onto the confirm sentinel from
// the last tab. Clears any validation error.
func (st *State) AdvanceTab() {
	st.onConfirm = false
	st.err = ""
	if st.tab+1 < len(st.Sections) {
		st.tab++
		st.item = st.restoreCursor()
	} else {
		st.onConfirm = true
	}
}

// SelectCurrent applies the focused option: a choice becomes selected
// (discarding any manual value), Skip clears selection and manual
// value, Manual is handled by the caller's side channel.
func (st *State) SelectCurrent() {
	sel := st.current().Selection
	if sel == nil || st.item >= len(sel.Options) {
		return
	}
	switch sel.Options[st.item].Kind {
	case KindChoice:
		sel.Selected = st.item
		sel.ManualValue = ""
	case KindSkip:
		sel.Selected = -1
		sel.ManualValue = ""
	case KindManual:
	}
}

// IsManual reports whether the focused item is the manual-entry option.
func (st *State) IsManual() bool {
	if st.onConfirm {
		return false
	}
	sel := st.current().Selection
	return sel != nil && st.item < len(sel.Options) && sel.Options[st.item].Kind == KindManual
}

// SetManual stores a manually entered value and marks the manual option
// selected.
func (st *State) SetManual(val string) {
	if sel := st.current().Selection; sel != nil {
		sel.ManualValue = val
		sel.Selected = st.item
	}
}

// IsTextInput reports whether the focused tab takes typed input.
func (st *State) IsTextInput() bool {
	return st.current().TextInput != nil
}

// HandleChar appends a typed character to the active field, honoring
// the digits-only flag.
func (st *State) HandleChar(c rune) {
	ti := st.current().TextInput
	if ti == nil {
		return
	}
	field := &ti.Fields[ti.Active]
	if field.DigitsOnly && (c < '0' || c > '9') {
		return
	}
	field.Buffer += string(c)
	st.err = ""
}

// HandleBackspace removes the last character of the active field.
func (st *State) HandleBackspace() {
	ti := st.current().TextInput
	if ti == nil {
		return
	}
	buf := ti.Fields[ti.Active].Buffer
	if len(buf) > 0 {
		ti.Fields[ti.Active].Buffer = buf[:len(buf)-1]
	}
	st.err = ""
}

// Ready reports whether every required tab has a value, i.e. whether
// confirm may succeed.
func (st *State) Ready() bool {
	for _, sec := range st.Sections {
		if !sec.Required {
			continue
		}
		if _, ok := sec.Value(); !ok {
			return false
		}
	}
	return true
}

// Values maps each tab label to its resolved value. Tabs without a
// value are omitted.
func (st *State) Values() map[string]string {
	out := make(map[string]string, len(st.Sections))
	for _, sec := range st.Sections {
		if v, ok := sec.Value(); ok {
			out[sec.Label] = v
		}
	}
	return out
}
