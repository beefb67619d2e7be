// Package antivirus scans uploaded files with a clamd daemon.
package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"
)

// ScanResult is the verdict for one file. Infected is also set when the
// scan could not complete, so callers reject on any doubt.
type ScanResult struct {
	Infected   bool
	ThreatName string
	Err        error
}

// ClamAVScanner talks to clamd over TCP ("host:3310") or a unix socket path.
type ClamAVScanner struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
}

func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clamd: %w", err)
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping reports whether clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("failed to send ping: %w", err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected clamd reply %q", reply)
	}
	return nil
}

// Scan streams data to clamd with the INSTREAM command.
// Replies look like "stream: OK", "stream: Eicar-Signature FOUND" or "... ERROR".
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	fail := func(err error) ScanResult {
		return ScanResult{Infected: true, Err: fmt.Errorf("scanning %s: %w", filename, err)}
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))

	w := bufio.NewWriter(conn)
	_, _ = w.WriteString("zINSTREAM\x00")
	_, _ = w.Write(size[:])
	_, _ = w.Write(data)
	_, _ = w.Write([]byte{0, 0, 0, 0})
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("failed to send stream: %w", err))
	}

	reply, err := readReply(conn)
	if err != nil {
		return fail(err)
	}

	switch {
	case strings.HasSuffix(reply, "FOUND"):
		threat := strings.TrimSuffix(reply, "FOUND")
		if _, after, ok := strings.Cut(threat, ":"); ok {
			threat = after
		}
		return ScanResult{Infected: true, ThreatName: strings.TrimSpace(threat)}
	case strings.HasSuffix(reply, "OK"):
		return ScanResult{}
	default:
		return fail(fmt.Errorf("clamd error: %s", reply))
	}
}

// readReply reads one NUL-terminated clamd reply.
func readReply(conn net.Conn) (string, error) {
	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && reply == "" {
		return "", fmt.Errorf("failed to read clamd reply: %w", err)
	}
	return strings.TrimSpace(strings.TrimRight(reply, "\x00")), nil
}
