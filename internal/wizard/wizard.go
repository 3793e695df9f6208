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

// Package wizard implements the interactive add flow: it assembles the
// form tabs from the user's SSH config, runs the form, and appends the
// resulting Host block.
package wizard

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/twbot/mole/internal/form"
	"github.com/twbot/mole/internal/picker"
	"github.com/twbot/mole/internal/sshconfig"
	"github.com/twbot/mole/internal/ui"
)

// ForwardType selects which kind of forward the new tunnel carries.
type ForwardType int

const (
	ForwardLocal ForwardType = iota
	ForwardRemote
	ForwardDynamic
)

// Run drives the whole add flow. It returns nil when the user cancels.
func Run() error {
	tunnels, err := sshconfig.DiscoverTunnels()
	if err != nil {
		tunnels = nil
	}
	choices := sshconfig.GatherChoices()

	existingNames := make([]string, len(tunnels))
	var usedPorts []int
	for i := range tunnels {
		existingNames[i] = tunnels[i].Name
		usedPorts = append(usedPorts, tunnels[i].LocalPorts()...)
	}

	fwdType, ok, err := pickForwardType()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("  Aborted.")
		return nil
	}

	sections := buildSections(fwdType, choices, existingNames)
	state := form.NewState(sections, existingNames, usedPorts)

	confirmed, err := form.Run(state)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("  Aborted.")
		return nil
	}

	block, name, err := BuildHostBlock(state, fwdType)
	if err != nil {
		return err
	}

	fmt.Println("\n  Will add to ~/.ssh/config:")
	fmt.Println()
	for _, line := range strings.Split(strings.Trim(block, "\n"), "\n") {
		fmt.Println("  " + line)
	}
	fmt.Println()

	if _, err := sshconfig.AppendHostBlock(block); err != nil {
		return err
	}
	ui.Successf("Tunnel '%s' added to ~/.ssh/config", name)
	return nil
}

func pickForwardType() (ForwardType, bool, error) {
	choice, ok, err := picker.Pick("Forward type", []picker.Item{
		{Name: "Local Forward", Desc: "local port → remote service"},
		{Name: "Remote Forward", Desc: "remote port → local service"},
		{Name: "Dynamic (SOCKS)", Desc: "local SOCKS proxy"},
	})
	if err != nil || !ok {
		return ForwardLocal, false, err
	}
	switch choice {
	case "Remote Forward":
		return ForwardRemote, true, nil
	case "Dynamic (SOCKS)":
		return ForwardDynamic, true, nil
	default:
		return ForwardLocal, true, nil
	}
}

// buildSections assembles the form tabs. The first six are fixed
// (Name, Group, Host, User, Identity, ProxyJump); the rest depend on
// the forward type.
func buildSections(fwdType ForwardType, choices sshconfig.Choices, existingNames []string) []*form.Section {
	existing := make(map[string]bool, len(existingNames))
	for _, n := range existingNames {
		existing[n] = true
	}
	proxyJumps := make(map[string]bool, len(choices.ProxyJumps))
	for _, pj := range choices.ProxyJumps {
		proxyJumps[pj] = true
	}

	var sections []*form.Section

	sections = append(sections,
		form.NewText("Name", true, form.TextField{Label: "Tunnel name"}),
		form.NewText("Group", false, form.TextField{Label: "Group tag"}))

	// Hosts already used as tunnels or jump hosts are not offered as
	// tunnel endpoints.
	host := form.NewSelection("Host", true)
	for _, h := range choices.Hosts {
		if existing[h.Alias] || proxyJumps[h.Alias] {
			continue
		}
		host.Choice(fmt.Sprintf("%s (%s)", h.Alias, h.Hostname), h.Hostname)
	}
	sections = append(sections, host.Manual())

	userSec := form.NewSelection("User", true)
	current := currentUsername()
	hasCurrent := false
	for _, u := range choices.Users {
		if u == current {
			hasCurrent = true
		}
		userSec.Choice(u, u)
	}
	if !hasCurrent && current != "" {
		userSec.Selection.Options = append([]form.Option{
			{Label: current, Kind: form.KindChoice, Value: current},
		}, userSec.Selection.Options...)
	}
	sections = append(sections, userSec.Manual())

	identity := form.NewSelection("Identity", false)
	for _, f := range choices.IdentityFiles {
		identity.Choice(f, f)
	}
	sections = append(sections, identity.Manual().Skip())

	// Any non-tunnel host can serve as a jump host.
	pj := form.NewSelection("ProxyJump", false)
	for _, h := range choices.Hosts {
		if existing[h.Alias] {
			continue
		}
		pj.Choice(fmt.Sprintf("%s (%s)", h.Alias, h.Hostname), h.Alias)
	}
	sections = append(sections, pj.Manual().Skip())

	switch fwdType {
	case ForwardLocal:
		fwd := form.NewSelection("Forward", true).Choice("localhost", "localhost")
		for _, rh := range choices.RemoteHosts {
			fwd.Choice(rh, rh)
		}
		sections = append(sections, fwd.Manual().WithDefault(0))
		sections = append(sections, form.NewText("Ports", true,
			form.TextField{Label: "Local port", DigitsOnly: true},
			form.TextField{Label: "Remote port", DigitsOnly: true}))
	case ForwardRemote:
		target := form.NewSelection("Target", true).Choice("localhost", "localhost")
		for _, rh := range choices.RemoteHosts {
			target.Choice(rh, rh)
		}
		sections = append(sections, target.Manual().WithDefault(0))
		sections = append(sections, form.NewText("Ports", true,
			form.TextField{Label: "Remote bind port", DigitsOnly: true},
			form.TextField{Label: "Local target port", DigitsOnly: true}))
	case ForwardDynamic:
		sections = append(sections, form.NewText("Port", true,
			form.TextField{Label: "Listen port", DigitsOnly: true}))
	}

	return sections
}

// BuildHostBlock serializes the confirmed form into an ssh_config Host
// block, returning the block and the tunnel name.
func BuildHostBlock(state *form.State, fwdType ForwardType) (string, string, error) {
	get := func(i int) (string, bool) { return state.Sections[i].Value() }

	name, ok := get(0)
	if !ok {
		return "", "", fmt.Errorf("name is required")
	}
	group, hasGroup := get(1)
	hostname, ok := get(2)
	if !ok {
		return "", "", fmt.Errorf("hostname is required")
	}
	username, ok := get(3)
	if !ok {
		return "", "", fmt.Errorf("user is required")
	}
	identity, hasIdentity := get(4)
	proxyJump, hasProxyJump := get(5)

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n# Tunnel: %s\nHost %s\n", name, name)
	if hasGroup {
		fmt.Fprintf(&b, "  %s%s\n", sshconfig.GroupTag, group)
	}
	fmt.Fprintf(&b, "  HostName %s\n  User %s\n", hostname, username)
	if hasIdentity {
		fmt.Fprintf(&b, "  IdentityFile %s\n", identity)
	}
	if hasProxyJump {
		fmt.Fprintf(&b, "  ProxyJump %s\n", proxyJump)
	}

	last := len(state.Sections) - 1
	switch fwdType {
	case ForwardLocal:
		remoteHost := valueOr(state, 6, "localhost")
		localPort, remotePort, err := portPair(state, last)
		if err != nil {
			return "", "", err
		}
		fmt.Fprintf(&b, "  LocalForward %d %s:%d\n", localPort, remoteHost, remotePort)
	case ForwardRemote:
		targetHost := valueOr(state, 6, "localhost")
		bindPort, targetPort, err := portPair(state, last)
		if err != nil {
			return "", "", err
		}
		fmt.Fprintf(&b, "  RemoteForward %d %s:%d\n", bindPort, targetHost, targetPort)
	case ForwardDynamic:
		listen, ok := state.Sections[last].TextFieldValue(0)
		if !ok {
			return "", "", fmt.Errorf("listen port is required")
		}
		port, err := parsePort(listen)
		if err != nil {
			return "", "", err
		}
		fmt.Fprintf(&b, "  DynamicForward %d\n", port)
	}
	b.WriteString("  RequestTTY no\n  ExitOnForwardFailure yes\n")

	return b.String(), name, nil
}

func valueOr(state *form.State, idx int, fallback string) string {
	if v, ok := state.Sections[idx].Value(); ok {
		return v
	}
	return fallback
}

func portPair(state *form.State, idx int) (int, int, error) {
	first, ok := state.Sections[idx].TextFieldValue(0)
	if !ok {
		return 0, 0, fmt.Errorf("port is required")
	}
	second, ok := state.Sections[idx].TextFieldValue(1)
	if !ok {
		return 0, 0, fmt.Errorf("port is required")
	}
	p1, err := parsePort(first)
	if err != nil {
		return 0, 0, err
	}
	p2, err := parsePort(second)
	if err != nil {
		return 0, 0, err
	}
	return p1, p2, nil
}

func parsePort(s string) (int, error) {
	var port int
	if _, err := fmt.Sscanf(s, "%d", &port); err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
