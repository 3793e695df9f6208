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

package sshconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/twbot/mole/internal/config"
)

// configFiles returns the main SSH config plus every Included file.
func configFiles(mainPath string) ([]string, error) {
	if _, err := os.Stat(mainPath); err != nil {
		return nil, fmt.Errorf("%s not found — set ssh_config in ~/.mole/config.yaml if you use a custom path", mainPath)
	}
	files := []string{mainPath}
	data, err := os.ReadFile(mainPath)
	if err != nil {
		return nil, err
	}
	sshDir := config.SSHDir()
	for _, raw := range strings.Split(string(data), "\n") {
		key, value, ok := splitDirective(strings.TrimSpace(raw))
		if ok && strings.EqualFold(key, "include") {
			files = append(files, expandInclude(value, sshDir)...)
		}
	}
	return files, nil
}

// findHostRange locates the line range [start, end) of a Host block.
// A block runs from its Host line to the next Host/Match line or EOF.
func findHostRange(path, name string) (start, end int, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false, err
	}
	lines := strings.Split(string(data), "\n")

	blockStart := -1
	for i, line := range lines {
		key, value, ok := splitDirective(strings.TrimSpace(line))
		if !ok {
			continue
		}
		if strings.EqualFold(key, "host") || strings.EqualFold(key, "match") {
			if blockStart >= 0 {
				return blockStart, i, true, nil
			}
			if strings.EqualFold(key, "host") && firstField(value) == name {
				blockStart = i
			}
		}
	}
	if blockStart >= 0 {
		return blockStart, len(lines), true, nil
	}
	return 0, 0, false, nil
}

// ReadHostBlock returns the file path and content of a Host block without
// modifying anything. found is false when no block matches.
func ReadHostBlock(name string) (path, block string, found bool, err error) {
	files, err := configFiles(config.Load().SSHConfigPath())
	if err != nil {
		return "", "", false, err
	}
	for _, file := range files {
		start, end, ok, err := findHostRange(file, name)
		if err != nil {
			return "", "", false, err
		}
		if !ok {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", false, err
		}
		lines := strings.Split(string(data), "\n")
		return file, strings.Join(lines[start:end], "\n"), true, nil
	}
	return "", "", false, nil
}

// RemoveHostBlock deletes a Host block in place and returns the file it
// was removed from.
func RemoveHostBlock(name string) (string, error) {
	files, err := configFiles(config.Load().SSHConfigPath())
	if err != nil {
		return "", err
	}
	for _, file := range files {
		removed, err := removeHostBlockFrom(file, name)
		if err != nil {
			return "", err
		}
		if removed {
			return file, nil
		}
	}
	return "", fmt.Errorf("host block '%s' not found in SSH config files", name)
}

func removeHostBlockFrom(path, name string) (bool, error) {
	start, end, found, err := findHostRange(path, name)
	if err != nil || !found {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	lines := strings.Split(string(data), "\n")

	kept := append([]string{}, lines[:start]...)
	kept = append(kept, lines[end:]...)
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	content := strings.Join(kept, "\n")
	if content != "" {
		content += "\n"
	}
	return true, os.WriteFile(path, []byte(content), 0600)
}

// RenameHostBlock rewrites the Host line of a block, preserving leading
// whitespace, and returns the file it was found in.
func RenameHostBlock(oldName, newName string) (string, error) {
	files, err := configFiles(config.Load().SSHConfigPath())
	if err != nil {
		return "", err
	}
	for _, file := range files {
		renamed, err := renameHostBlockIn(file, oldName, newName)
		if err != nil {
			return "", err
		}
		if renamed {
			return file, nil
		}
	}
	return "", fmt.Errorf("host block '%s' not found in SSH config files", oldName)
}

func renameHostBlockIn(path, oldName, newName string) (bool, error) {
	start, _, found, err := findHostRange(path, oldName)
	if err != nil || !found {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	lines := strings.Split(string(data), "\n")
	trimmed := strings.TrimSpace(lines[start])
	leading := lines[start][:len(lines[start])-len(trimmed)]
	lines[start] = leading + "Host " + newName
	return true, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0600)
}

// AppendHostBlock appends a block to the main SSH config.
func AppendHostBlock(block string) (string, error) {
	path := config.Load().SSHConfigPath()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(block); err != nil {
		return "", fmt.Errorf("failed to write to %s: %w", path, err)
	}
	return path, nil
}
