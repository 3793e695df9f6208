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

// Package tunnel defines the tunnel model: an SSH host with at least one
// local, remote, or dynamic port forward.
package tunnel

import (
	"fmt"
	"strings"
)

// PortForward is a local forward: local_port -> remote_host:remote_port.
type PortForward struct {
	LocalPort  int
	RemoteHost string
	RemotePort int
}

func (f PortForward) String() string {
	return fmt.Sprintf("%d:%s:%d", f.LocalPort, f.RemoteHost, f.RemotePort)
}

// RemotePortForward is a reverse forward: remote bind_port -> host:port.
type RemotePortForward struct {
	BindPort   int
	RemoteHost string
	RemotePort int
}

func (f RemotePortForward) String() string {
	return fmt.Sprintf("R:%d→%s:%d", f.BindPort, f.RemoteHost, f.RemotePort)
}

// DynamicForward is a SOCKS proxy forward: ssh -D listen_port.
type DynamicForward struct {
	ListenPort int
}

func (f DynamicForward) String() string {
	return fmt.Sprintf("D:%d", f.ListenPort)
}

// Host is an SSH host block that defines a tunnel.
type Host struct {
	Name            string
	Hostname        string
	Forwards        []PortForward
	RemoteForwards  []RemotePortForward
	DynamicForwards []DynamicForward
	Group           string
}

// LocalPorts returns every port the tunnel binds locally (local forward
// listen ports plus dynamic SOCKS listen ports).
func (h *Host) LocalPorts() []int {
	var ports []int
	for _, f := range h.Forwards {
		ports = append(ports, f.LocalPort)
	}
	for _, f := range h.DynamicForwards {
		ports = append(ports, f.ListenPort)
	}
	return ports
}

// FormatForwards builds a display string for all forwards of the tunnel.
func (h *Host) FormatForwards() string {
	var parts []string
	for _, f := range h.Forwards {
		parts = append(parts, f.String())
	}
	for _, f := range h.RemoteForwards {
		parts = append(parts, f.String())
	}
	for _, f := range h.DynamicForwards {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ", ")
}
