package main

import (
	"testing"
	"time"
)

func TestRegisterVisibleImmediately(t *testing.T) {
	hub := NewHub(nil)

	c := &Client{hub: hub, connID: "c1", send: make(chan []byte, 1)}
	hub.Register(c)
	if hub.ClientByID("c1") != c {
		t.Fatal("client must be visible right after Register, without the run loop")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}
}

func TestImmediateDisconnectCleansUp(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	c := &Client{hub: hub, connID: "c1", send: make(chan []byte, 1)}
	hub.Register(c)
	hub.unregister <- c

	deadline := time.Now().Add(time.Second)
	for hub.ClientByID("c1") != nil {
		if time.Now().After(deadline) {
			t.Fatal("client was not removed after unregister")
		}
		time.Sleep(time.Millisecond)
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel must be closed on unregister")
	}
}

func TestConnLimitPerIP(t *testing.T) {
	hub := NewHub(nil)

	for i := 0; i < maxConnsPerIP; i++ {
		if !hub.CanAccept("1.2.3.4") {
			t.Fatalf("connection %d should be accepted", i)
		}
		hub.TrackConnect("1.2.3.4")
	}
	if hub.CanAccept("1.2.3.4") {
		t.Error("per-ip limit should reject the next connection")
	}
	if !hub.CanAccept("5.6.7.8") {
		t.Error("other ips are unaffected")
	}

	hub.TrackDisconnect("1.2.3.4")
	if !hub.CanAccept("1.2.3.4") {
		t.Error("a freed slot should be reusable")
	}
}

func TestTrackDisconnectCleansUp(t *testing.T) {
	hub := NewHub(nil)
	hub.TrackConnect("1.2.3.4")
	hub.TrackDisconnect("1.2.3.4")

	hub.connMu.Lock()
	defer hub.connMu.Unlock()
	if _, ok := hub.ipConns["1.2.3.4"]; ok {
		t.Error("empty ip entries should be dropped")
	}
	if hub.totalConns != 0 {
		t.Errorf("expected 0 total connections, got %d", hub.totalConns)
	}
}
