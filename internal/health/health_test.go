// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package health

import (
	"net"
	"testing"
	"time"
)

func TestCheckPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	if !CheckPort(port) {
		t.Errorf("CheckPort(%d) = false for a listening port", port)
	}
}

func TestIsPortFree(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if IsPortFree(port) {
		t.Errorf("IsPortFree(%d) = true for a bound port", port)
	}
	ln.Close()
	if !IsPortFree(port) {
		t.Errorf("IsPortFree(%d) = false after the listener closed", port)
	}
}

func TestWaitHealthy_Timeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	start := time.Now()
	if WaitHealthy([]int{port}, 100*time.Millisecond) {
		t.Error("WaitHealthy = true for a closed port")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("WaitHealthy did not respect its timeout")
	}
}
