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
	"strconv"
	"strings"
	"unicode"
)

// ValidateCurrentTextTab runs the validation bound to the focused tab:
// the first tab carries the name rules, the last the port rules. On
// failure the error message is stored and false returned; entered text
// is never discarded.
func (st *State) ValidateCurrentTextTab() bool {
	var err string
	switch {
	case st.tab == 0:
		err = st.validateName()
	case st.tab == len(st.Sections)-1:
		err = st.validatePorts()
	}
	st.err = err
	return err == ""
}

func (st *State) validateName() string {
	ti := st.Sections[0].TextInput
	if ti == nil {
		return ""
	}
	val := strings.TrimSpace(ti.Fields[0].Buffer)
	switch {
	case val == "":
		return "cannot be empty"
	case strings.IndexFunc(val, unicode.IsSpace) >= 0:
		return "cannot contain spaces"
	case strings.ContainsAny(val, "*?"):
		return "cannot contain wildcards"
	}
	for _, name := range st.existingNames {
		if name == val {
			return fmt.Sprintf("'%s' already exists", val)
		}
	}
	return ""
}

func (st *State) validatePorts() string {
	ti := st.Sections[len(st.Sections)-1].TextInput
	if ti == nil {
		return ""
	}
	for _, field := range ti.Fields {
		val := strings.TrimSpace(field.Buffer)
		if val == "" {
			return fmt.Sprintf("%s cannot be empty", field.Label)
		}
		port, err := strconv.Atoi(val)
		if err != nil || port < 0 || port > 65535 {
			return "must be a number between 1 and 65535"
		}
		if port == 0 {
			return "port must be between 1 and 65535"
		}
	}
	// The first field binds locally; it must not collide with a port
	// another tunnel already listens on.
	if lp, err := strconv.Atoi(strings.TrimSpace(ti.Fields[0].Buffer)); err == nil {
		for _, used := range st.usedPorts {
			if used == lp {
				return fmt.Sprintf("port %d is already used by another tunnel", lp)
			}
		}
	}
	return ""
}
