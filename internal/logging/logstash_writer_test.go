package logging

import (
	"bufio"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

func TestLogstashWriterForwardsLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	defer w.Close()

	n, err := w.Write([]byte(`{"msg":"hello"}`))
	if err != nil || n != len(`{"msg":"hello"}`) {
		t.Fatalf("unexpected write result n=%d err=%v", n, err)
	}

	select {
	case line := <-received:
		if line != "{\"msg\":\"hello\"}\n" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for log line")
	}

	if err := w.Sync(); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if stats := w.Stats(); stats.Sent != 1 || stats.Dropped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLogstashWriterDropsDuringCooldown(t *testing.T) {
	var dials atomic.Int32
	w, err := NewLogstashWriter("logstash:5000",
		WithRetryInterval(time.Hour, time.Hour),
		WithDialer(func(network, addr string, timeout time.Duration) (net.Conn, error) {
			dials.Add(1)
			return nil, errors.New("connection refused")
		}),
	)
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte("entry")); err != nil {
			t.Fatalf("write %d returned error: %v", i, err)
		}
	}
	_ = w.Sync()

	if got := dials.Load(); got != 1 {
		t.Fatalf("expected a single dial attempt during cooldown, got %d", got)
	}
	if w.Dropped() != 3 {
		t.Fatalf("expected 3 dropped entries, got %d", w.Dropped())
	}
}

func TestLogstashWriterReconnectsAfterWriteFailure(t *testing.T) {
	var dials atomic.Int32
	received := make(chan string, 1)
	dial := func(network, addr string, timeout time.Duration) (net.Conn, error) {
		client, server := net.Pipe()
		if dials.Add(1) == 1 {
			server.Close()
			return client, nil
		}
		go func() {
			defer server.Close()
			line, _ := bufio.NewReader(server).ReadString('\n')
			received <- line
		}()
		return client, nil
	}

	w, err := NewLogstashWriter("logstash:5000", WithDialer(dial), WithRetryInterval(0, 0))
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	defer w.Close()

	_, _ = w.Write([]byte("first"))
	_, _ = w.Write([]byte("second"))
	_ = w.Sync()

	select {
	case line := <-received:
		if line != "second\n" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for log line")
	}
	if stats := w.Stats(); stats != (Stats{Sent: 1, Dropped: 1, Reconnects: 1}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLogstashWriterDropsWhenQueueFull(t *testing.T) {
	dialing := make(chan struct{})
	release := make(chan struct{})
	w, err := NewLogstashWriter("logstash:5000",
		WithQueueSize(1),
		WithRetryInterval(time.Hour, time.Hour),
		WithDialer(func(network, addr string, timeout time.Duration) (net.Conn, error) {
			close(dialing)
			<-release
			return nil, errors.New("connection refused")
		}),
	)
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}

	_, _ = w.Write([]byte("a"))
	<-dialing
	_, _ = w.Write([]byte("b"))
	n, err := w.Write([]byte("c"))
	if err != nil || n != 1 {
		t.Fatalf("expected full-length write while queue is full, got n=%d err=%v", n, err)
	}
	if w.Dropped() != 1 {
		t.Fatalf("expected overflow entry dropped, got %d", w.Dropped())
	}

	close(release)
	_ = w.Close()
	if w.Dropped() != 3 {
		t.Fatalf("expected every entry dropped, got %d", w.Dropped())
	}
}

func TestLogstashWriterBackOffDoubles(t *testing.T) {
	w := &LogstashWriter{retryInterval: time.Second, maxRetryInterval: 3 * time.Second}

	for _, want := range []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second} {
		w.backOff()
		if w.wait != want {
			t.Fatalf("expected wait %v, got %v", want, w.wait)
		}
	}
	if !w.nextDial.After(time.Now()) {
		t.Fatalf("expected next dial in the future, got %v", w.nextDial)
	}
}

func TestLogstashWriterRejectsBadConfig(t *testing.T) {
	if _, err := NewLogstashWriter("  "); err == nil {
		t.Fatal("expected error for empty address")
	}
	if _, err := NewLogstashWriter("logstash:5000", WithQueueSize(0)); err == nil {
		t.Fatal("expected error for zero queue size")
	}
}

func TestLogstashWriterClosed(t *testing.T) {
	w, _ := NewLogstashWriter("logstash:5000", WithDialer(func(network, addr string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}))
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync after Close returned error: %v", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Fatal("expected error writing to closed writer")
	}
}
