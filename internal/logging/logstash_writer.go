package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogstashWriter is a zapcore.WriteSyncer that ships JSON log lines to a
// Logstash TCP input from a background goroutine. Write only enqueues; when
// the queue is full or Logstash is unreachable the entry is counted as
// dropped. Failed dials back off exponentially up to the max retry interval.
type LogstashWriter struct {
	addr             string
	queueSize        int
	dialTimeout      time.Duration
	writeTimeout     time.Duration
	retryInterval    time.Duration
	maxRetryInterval time.Duration
	dial             func(network, addr string, timeout time.Duration) (net.Conn, error)

	queue   chan []byte
	flushes chan chan struct{}
	done    chan struct{}
	stopped chan struct{}

	closeOnce sync.Once
	closed    atomic.Bool

	sent       atomic.Uint64
	dropped    atomic.Uint64
	reconnects atomic.Uint64

	// owned by the shipping goroutine
	conn      net.Conn
	connected bool
	wait      time.Duration
	nextDial  time.Time
}

// Stats is a snapshot of the writer's counters.
type Stats struct {
	Sent       uint64
	Dropped    uint64
	Reconnects uint64
}

type Option func(*LogstashWriter)

// WithQueueSize bounds how many entries may wait for the network. Defaults
// to 1024.
func WithQueueSize(n int) Option {
	return func(w *LogstashWriter) { w.queueSize = n }
}

// WithDialTimeout overrides the TCP dial timeout. Defaults to 2 seconds.
func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

// WithWriteTimeout overrides the TCP write timeout. Defaults to 1 second.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets the first wait after a failed dial or write. Each
// further failure doubles it, capped at limit. Defaults to 5s and 1m.
func WithRetryInterval(first, limit time.Duration) Option {
	return func(w *LogstashWriter) {
		w.retryInterval = first
		w.maxRetryInterval = limit
	}
}

// WithDialer replaces net.DialTimeout.
func WithDialer(dial func(network, addr string, timeout time.Duration) (net.Conn, error)) Option {
	return func(w *LogstashWriter) {
		if dial != nil {
			w.dial = dial
		}
	}
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}

	w := &LogstashWriter{
		addr:             addr,
		queueSize:        1024,
		dialTimeout:      2 * time.Second,
		writeTimeout:     time.Second,
		retryInterval:    5 * time.Second,
		maxRetryInterval: time.Minute,
		dial:             net.DialTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.queueSize <= 0 {
		return nil, errors.New("logstash: queue size must be positive")
	}

	w.queue = make(chan []byte, w.queueSize)
	w.flushes = make(chan chan struct{})
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})
	go w.run()
	return w, nil
}

// Write enqueues one encoded entry. It always reports the full length so zap
// never treats a Logstash outage as a logging failure.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if w.closed.Load() {
		return 0, io.ErrClosedPipe
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	select {
	case w.queue <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Sync blocks until every entry queued before the call was shipped or dropped.
func (w *LogstashWriter) Sync() error {
	ack := make(chan struct{})
	select {
	case w.flushes <- ack:
	case <-w.stopped:
		return nil
	}
	select {
	case <-ack:
	case <-w.stopped:
	}
	return nil
}

// Close ships what is already queued and hangs up.
func (w *LogstashWriter) Close() error {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		close(w.done)
	})
	<-w.stopped
	return nil
}

// Dropped reports how many entries never reached Logstash.
func (w *LogstashWriter) Dropped() uint64 { return w.dropped.Load() }

func (w *LogstashWriter) Stats() Stats {
	return Stats{
		Sent:       w.sent.Load(),
		Dropped:    w.dropped.Load(),
		Reconnects: w.reconnects.Load(),
	}
}

func (w *LogstashWriter) run() {
	defer close(w.stopped)
	defer w.hangUp()

	for {
		select {
		case line := <-w.queue:
			w.ship(line)
		case ack := <-w.flushes:
			w.drain()
			close(ack)
		case <-w.done:
			w.drain()
			return
		}
	}
}

func (w *LogstashWriter) drain() {
	for {
		select {
		case line := <-w.queue:
			w.ship(line)
		default:
			return
		}
	}
}

func (w *LogstashWriter) ship(line []byte) {
	if err := w.connect(); err != nil {
		w.dropped.Add(1)
		return
	}
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(line); err != nil {
		w.dropped.Add(1)
		w.hangUp()
		w.backOff()
		return
	}
	w.sent.Add(1)
}

func (w *LogstashWriter) connect() error {
	if w.conn != nil {
		return nil
	}
	if time.Now().Before(w.nextDial) {
		return errRetryCooldown
	}

	conn, err := w.dial("tcp", w.addr, w.dialTimeout)
	if err != nil {
		w.backOff()
		return err
	}
	if w.connected {
		w.reconnects.Add(1)
	}
	w.connected = true
	w.conn = conn
	w.wait = 0
	w.nextDial = time.Time{}
	return nil
}

func (w *LogstashWriter) hangUp() {
	if w.conn == nil {
		return
	}
	_ = w.conn.Close()
	w.conn = nil
}

func (w *LogstashWriter) backOff() {
	if w.retryInterval <= 0 {
		w.nextDial = time.Time{}
		return
	}
	if w.wait == 0 {
		w.wait = w.retryInterval
	} else {
		w.wait *= 2
	}
	if w.maxRetryInterval > 0 && w.wait > w.maxRetryInterval {
		w.wait = w.maxRetryInterval
	}
	w.nextDial = time.Now().Add(w.wait)
}

var errRetryCooldown = errors.New("logstash: retry cooldown in effect")
