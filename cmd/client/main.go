package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:12345"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the connection lifecycle: one goroutine renders inbound frames,
// the main loop forwards stdin lines to the server. The client is a pure
// line-stream producer/consumer, all protocol rules live server-side.
func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	log.Info("Connected", "address", config.ServerAddress)

	// Reception loop: ends when the server closes the stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			render(scanner.Text())
		}
	}()

	// Unblock the stdin loop when the server goes away or a signal arrives.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
		_ = os.Stdin.Close()
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		if _, err := fmt.Fprintf(conn, "%s\n", stdin.Text()); err != nil {
			break
		}
	}

	<-done
	log.Info("Stopping client...")
	return exitOK, nil
}

// render colorizes inbound frames by shape: group traffic, private messages,
// everything else (server notices) as-is.
func render(line string) {
	switch {
	case strings.HasPrefix(line, "["):
		color.Cyan.Println(line)
	case strings.Contains(line, " (private): "):
		color.Magenta.Println(line)
	case strings.HasPrefix(line, "Welcome, "):
		color.Green.Println(line)
	default:
		fmt.Println(line)
	}
}
