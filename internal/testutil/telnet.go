package testutil

import (
	"bufio"
	"fmt"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// FilterTelnet drops the three-byte option negotiations a server sends.
func FilterTelnet(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == 255 && i+2 < len(b) {
			i += 2
			continue
		}
		out = append(out, b[i])
	}
	return out
}

// TelnetClient is a line-oriented player client for driving the game server in tests.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
	buffer string
	// pending holds an escape sequence split across reads.
	pending string
}

// flush moves pending into buffer, holding back a trailing incomplete escape sequence.
func (c *TelnetClient) flush() {
	cut := len(c.pending)
	if i := strings.LastIndexByte(c.pending, '\x1b'); i >= 0 && !ansiPattern.MatchString(c.pending[i:]) {
		cut = i
	}
	c.buffer += StripANSI(c.pending[:cut])
	c.pending = c.pending[cut:]
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() { conn.Close() })

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil reads until the ANSI-stripped output contains substr. It returns
// the stripped output up to and including substr; anything after it stays
// buffered for the next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the output ending in substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()

	take := func() (string, bool) {
		idx := strings.Index(c.buffer, substr)
		if idx < 0 {
			return "", false
		}
		end := idx + len(substr)
		out := c.buffer[:end]
		c.buffer = c.buffer[end:]
		return out, true
	}
	if out, ok := take(); ok {
		return out
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	tmp := make([]byte, 1024)
	for {
		n, err := c.reader.Read(tmp)
		if n > 0 {
			c.pending += string(FilterTelnet(tmp[:n]))
			c.flush()
			if out, ok := take(); ok {
				return out
			}
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, c.buffer, err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Command sends text and reads until the reply contains want.
func (c *TelnetClient) Command(text, want string) string {
	c.t.Helper()
	c.Send(text)
	return c.ReadUntil(want, 5*time.Second)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
