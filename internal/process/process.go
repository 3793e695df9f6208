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

// Package process manages the autossh processes behind tunnels: PID
// files under ~/.mole/pids, per-tunnel logs under ~/.mole/logs, and
// adoption of autossh processes started outside of mole.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/health"
	"github.com/twbot/mole/internal/logging"
	"github.com/twbot/mole/internal/tunnel"
)

// PidFile returns the PID file path for a tunnel.
func PidFile(name string) string {
	return filepath.Join(config.PidDir(), name+".pid")
}

// LogFile returns the log file path for a tunnel.
func LogFile(name string) string {
	return filepath.Join(config.LogDir(), name+".log")
}

func oldLogFile(name string) string {
	return LogFile(name) + ".old"
}

func isPidAlive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}

// writePidFile records "<pid>\n<unix-epoch>" for a running tunnel.
func writePidFile(name string, pid int, startEpoch int64) error {
	if err := config.EnsureDirs(); err != nil {
		return err
	}
	content := fmt.Sprintf("%d\n%d", pid, startEpoch)
	return os.WriteFile(PidFile(name), []byte(content), 0644)
}

// readPidFile parses a PID file. The second line (start epoch) is
// optional for files written by older releases.
func readPidFile(name string) (pid int, startEpoch int64, ok bool) {
	data, err := os.ReadFile(PidFile(name))
	if err != nil {
		return 0, 0, false
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	pid, err = strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		os.Remove(PidFile(name))
		return 0, 0, false
	}
	if len(lines) > 1 {
		startEpoch, _ = strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64)
	}
	return pid, startEpoch, true
}

// findAutosshPid looks for an autossh process matching the tunnel name
// that was started outside of mole.
func findAutosshPid(name string) (int, bool) {
	out, err := exec.Command("pgrep", "-f", "autossh.*"+name).Output()
	if err != nil {
		return 0, false
	}
	first := strings.TrimSpace(strings.Split(string(out), "\n")[0])
	pid, err := strconv.Atoi(first)
	if err != nil {
		return 0, false
	}
	return pid, true
}

// processStartEpoch derives a process start time from ps elapsed time.
func processStartEpoch(pid int) (int64, bool) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "etime=").Output()
	if err != nil {
		return 0, false
	}
	elapsed, ok := parseEtime(string(out))
	if !ok {
		return 0, false
	}
	return time.Now().Unix() - elapsed, true
}

// parseEtime parses the ps etime format [[dd-]hh:]mm:ss into seconds.
func parseEtime(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	var days int64
	if idx := strings.Index(s, "-"); idx >= 0 {
		d, err := strconv.ParseInt(s[:idx], 10, 64)
		if err != nil {
			return 0, false
		}
		days = d
		s = s[idx+1:]
	}
	parts := strings.Split(s, ":")
	var hours, minutes, seconds int64
	switch len(parts) {
	case 3:
		vals := make([]int64, 3)
		for i, p := range parts {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return 0, false
			}
			vals[i] = v
		}
		hours, minutes, seconds = vals[0], vals[1], vals[2]
	case 2:
		m, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, false
		}
		sec, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, false
		}
		minutes, seconds = m, sec
	default:
		return 0, false
	}
	return days*86400 + hours*3600 + minutes*60 + seconds, true
}

// ReadPid returns the active PID for a tunnel, if any. Stale PID files
// are cleaned up; autossh processes started outside of mole are adopted
// by writing a fresh PID file.
func ReadPid(name string) (int, bool) {
	if pid, _, ok := readPidFile(name); ok {
		if isPidAlive(pid) {
			return pid, true
		}
		os.Remove(PidFile(name))
	}

	if pid, ok := findAutosshPid(name); ok {
		start, ok := processStartEpoch(pid)
		if !ok {
			start = time.Now().Unix()
		}
		if err := writePidFile(name, pid, start); err != nil {
			logging.Warn("failed to adopt external autossh process",
				zap.String("tunnel", name), zap.Error(err))
		}
		return pid, true
	}

	return 0, false
}

// StartTime returns the unix epoch at which an active tunnel started.
// PID files written without a timestamp are backfilled from ps.
func StartTime(name string) (int64, bool) {
	pid, start, ok := readPidFile(name)
	if !ok || !isPidAlive(pid) {
		return 0, false
	}
	if start > 0 {
		return start, true
	}
	if ts, ok := processStartEpoch(pid); ok {
		_ = writePidFile(name, pid, ts)
		return ts, true
	}
	return 0, false
}

// IsActive reports whether a tunnel has a running process.
func IsActive(name string) bool {
	_, ok := ReadPid(name)
	return ok
}

// FormatUptime renders elapsed time since startEpoch as "3d 1h",
// "2h 14m", or "5m".
func FormatUptime(startEpoch int64) string {
	elapsed := time.Now().Unix() - startEpoch
	if elapsed < 0 {
		elapsed = 0
	}
	days := elapsed / 86400
	hours := (elapsed % 86400) / 3600
	minutes := (elapsed % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%dm", minutes)
	}
}

// rotateLog renames an oversized log to .log.old so the next run starts
// fresh. Any previous .old file is replaced.
func rotateLog(path string, maxBytes int64) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxBytes {
		return
	}
	_ = os.Rename(path, path+".old")
}

// StartTunnel spawns autossh -N for the tunnel and records its PID.
// Local listen ports are checked for conflicts before spawning, and the
// child gets one second to fail fast on auth or connection errors.
func StartTunnel(tun *tunnel.Host, maxLogBytes int64) (int, error) {
	if IsActive(tun.Name) {
		return 0, fmt.Errorf("tunnel '%s' is already active", tun.Name)
	}

	var conflicts []string
	for _, port := range tun.LocalPorts() {
		if !health.IsPortFree(port) {
			conflicts = append(conflicts, strconv.Itoa(port))
		}
	}
	if len(conflicts) > 0 {
		return 0, fmt.Errorf("local port(s) %s already in use — stop the conflicting process first",
			strings.Join(conflicts, ", "))
	}

	if err := config.EnsureDirs(); err != nil {
		return 0, err
	}
	logPath := LogFile(tun.Name)
	rotateLog(logPath, maxLogBytes)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	// AUTOSSH_PORT=0 disables autossh's monitor port; ServerAliveInterval
	// in the host block handles liveness instead.
	cmd := exec.Command("autossh", "-N", tun.Name)
	cmd.Env = append(os.Environ(), "AUTOSSH_PORT=0")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to spawn autossh — is it installed? %w", err)
	}
	pid := cmd.Process.Pid

	// Detach: the tunnel must outlive this CLI invocation.
	if err := cmd.Process.Release(); err != nil {
		logging.Warn("failed to release autossh process handle", zap.Error(err))
	}

	time.Sleep(time.Second)

	if !isPidAlive(pid) {
		os.Remove(PidFile(tun.Name))
		return 0, fmt.Errorf("autossh exited immediately — is the port already in use or the host unreachable?")
	}

	if err := writePidFile(tun.Name, pid, time.Now().Unix()); err != nil {
		return 0, err
	}
	logging.Debug("started tunnel",
		zap.String("tunnel", tun.Name), zap.Int("pid", pid))
	return pid, nil
}

// StopTunnel terminates the autossh process for a tunnel and removes
// its PID file.
func StopTunnel(name string) error {
	pid, ok := ReadPid(name)
	if !ok {
		return fmt.Errorf("tunnel '%s' is not active", name)
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	os.Remove(PidFile(name))
	return nil
}

// CleanupFiles removes the PID file and log files for a tunnel.
func CleanupFiles(name string) {
	os.Remove(PidFile(name))
	os.Remove(LogFile(name))
	os.Remove(oldLogFile(name))
}

// RenameFiles moves PID and log files when a tunnel is renamed.
func RenameFiles(oldName, newName string) error {
	pairs := [][2]string{
		{PidFile(oldName), PidFile(newName)},
		{LogFile(oldName), LogFile(newName)},
		{oldLogFile(oldName), oldLogFile(newName)},
	}
	for _, p := range pairs {
		if _, err := os.Stat(p[0]); err != nil {
			continue
		}
		if err := os.Rename(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}
