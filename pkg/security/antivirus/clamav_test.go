package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd accepts one connection per call and answers with reply,
// recording the streamed payload.
func fakeClamd(t *testing.T, reply string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)

		cmd, _ := r.ReadString(0)
		if strings.HasPrefix(cmd, "zINSTREAM") {
			var payload []byte
			for {
				var size [4]byte
				if _, err := io.ReadFull(r, size[:]); err != nil {
					return
				}
				n := binary.BigEndian.Uint32(size[:])
				if n == 0 {
					break
				}
				chunk := make([]byte, n)
				if _, err := io.ReadFull(r, chunk); err != nil {
					return
				}
				payload = append(payload, chunk...)
			}
			got <- string(payload)
		} else {
			got <- strings.TrimRight(cmd, "\x00")
		}
		_, _ = conn.Write([]byte(reply + "\x00"))
	}()
	return ln.Addr().String(), got
}

func TestClamAVScanClean(t *testing.T) {
	addr, got := fakeClamd(t, "stream: OK")
	res := NewClamAVScanner(addr, time.Second).Scan(context.Background(), "cv.pdf", []byte("%PDF-1.4"))

	assert.False(t, res.Infected)
	assert.NoError(t, res.Err)
	assert.Equal(t, "%PDF-1.4", <-got)
}

func TestClamAVScanInfected(t *testing.T) {
	addr, _ := fakeClamd(t, "stream: Eicar-Test-Signature FOUND")
	res := NewClamAVScanner(addr, time.Second).Scan(context.Background(), "cv.pdf", []byte("X5O!P%@AP"))

	assert.True(t, res.Infected)
	assert.NoError(t, res.Err)
	assert.Equal(t, "Eicar-Test-Signature", res.ThreatName)
}

func TestClamAVScanFailsClosed(t *testing.T) {
	addr, _ := fakeClamd(t, "INSTREAM size limit exceeded. ERROR")
	res := NewClamAVScanner(addr, time.Second).Scan(context.Background(), "cv.pdf", []byte("data"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Err)

	// Nothing listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closed := ln.Addr().String()
	ln.Close()

	res = NewClamAVScanner(closed, 200*time.Millisecond).Scan(context.Background(), "cv.pdf", []byte("data"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Err)
}

func TestClamAVPing(t *testing.T) {
	addr, got := fakeClamd(t, "PONG")
	require.NoError(t, NewClamAVScanner(addr, time.Second).Ping(context.Background()))
	assert.Equal(t, "zPING", <-got)
}
