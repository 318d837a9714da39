// Package gelf ships log lines to a Graylog-compatible collector over UDP.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Syslog severity levels used in GELF payloads.
const (
	levelError = 3
	levelWarn  = 4
	levelInfo  = 6
)

// Writer is an io.Writer that emits one GELF message per Write call, so
// it can be teed with the standard log package via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
}

// New dials the collector at addr (e.g. "172.17.0.1:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "formforge-server"
	}
	return &Writer{conn: conn, hostname: hostname}, nil
}

// Write sends p as a single GELF message, fire-and-forget. The stdlib log
// date prefix ("2006/01/02 15:04:05 ") is stripped from the short message,
// and the severity is guessed from the message text.
func (w *Writer) Write(p []byte) (int, error) {
	short := strings.TrimRight(string(p), "\n")
	if len(short) > 20 && short[4] == '/' && short[7] == '/' && short[10] == ' ' && short[13] == ':' {
		short = short[20:]
	}

	level := levelInfo
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		level = levelError
	case strings.HasPrefix(short, "Warning:"):
		level = levelWarn
	}

	payload, err := json.Marshal(map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      "formforge",
	})
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}
