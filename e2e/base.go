package e2e

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

const ioTimeout = 3 * time.Second

// banner prints a scenario header, colorized when the terminal supports it.
func banner(cfg Config, name string) {
	header := fmt.Sprintf("=== SCENARIO: %s ===", name)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)
}

// chatClient is one live TCP connection speaking the line protocol.
type chatClient struct {
	t       *testing.T
	conn    net.Conn
	scanner *bufio.Scanner
}

func dialClient(t *testing.T, addr string) *chatClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, ioTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &chatClient{t: t, conn: conn, scanner: bufio.NewScanner(conn)}
}

// connect performs the handshake and returns once welcomed.
func (c *chatClient) connect(username string) {
	c.t.Helper()
	c.expect("Enter your username:")
	c.send(username)
	c.expect(fmt.Sprintf("Welcome, %s!", username))
}

func (c *chatClient) send(line string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(ioTimeout))
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	require.NoError(c.t, err)
}

func (c *chatClient) expect(want string) {
	c.t.Helper()
	req := require.New(c.t)
	_ = c.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	req.True(c.scanner.Scan(), "expected %q, stream ended (err=%v)", want, c.scanner.Err())
	req.Equal(want, c.scanner.Text())
}

// expectNothing asserts no frame arrives within the grace period.
// The deadline error is sticky on the scanner, so this must be the last
// read performed on this client.
func (c *chatClient) expectNothing(grace time.Duration) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(grace))
	if c.scanner.Scan() {
		c.t.Fatalf("expected silence, received %q", c.scanner.Text())
	}
}
