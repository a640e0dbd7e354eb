package e2e

import (
	"context"
	"log/slog"
	"minichat/moderation"
	"minichat/observability"
	"minichat/runtime"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// relayAddr resolves the target relay: the configured address, or a fresh
// in-process one bound to a random port.
func relayAddr(t *testing.T, cfg Config) string {
	t.Helper()
	req := require.New(t)

	if cfg.ServerAddr != "" {
		return cfg.ServerAddr
	}

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager()
	registry := runtime.NewRegistry(log, monitoring)

	data, err := moderation.LoadEmbedded()
	req.NoError(err)
	moderator, err := moderation.NewModerator(data.Words, '*')
	req.NoError(err)

	server := runtime.NewServer("127.0.0.1:0", registry, &moderator, monitoring,
		64, 0, ioTimeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Run(ctx) }()

	addr, err := server.Addr(ctx)
	req.NoError(err)
	return addr
}

func TestScenario_UsernameConflict(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	banner(cfg, "username conflict")
	addr := relayAddr(t, cfg)

	alice := dialClient(t, addr)
	alice.connect("alice")

	// A second connection claiming the same name must retry
	intruder := dialClient(t, addr)
	intruder.expect("Enter your username:")
	intruder.send("alice")
	intruder.expect("Username already taken. Please choose another username.")
	intruder.expect("Enter your username:")
	intruder.send("bob")
	intruder.expect("Welcome, bob!")

	// The first alice is unaffected
	alice.send("/listUsers")
	alice.expect("Connected users: alice, bob")
}

func TestScenario_GroupLifecycle(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	banner(cfg, "group lifecycle")
	addr := relayAddr(t, cfg)

	alice := dialClient(t, addr)
	alice.connect("alice")
	bob := dialClient(t, addr)
	bob.connect("bob")

	alice.send("/create devs")
	alice.expect("Group devs created.")

	bob.send("/join devs")
	bob.expect("You have left the default group.")
	bob.expect("You have joined the group: devs")

	// Group traffic reaches every member, sender included
	alice.send("/sendGroup devs hello world")
	alice.expect("[devs] alice: hello world")
	bob.expect("[devs] alice: hello world")

	// A group member cannot talk to the lobby
	bob.send("hi lobby")
	bob.expect("You cannot send messages to default group while being in other groups.")

	// Leaving the group restores lobby access
	bob.send("/leave devs")
	bob.expect("You have left the group: devs")
	bob.send("/listGroups")
	bob.expect("Available groups: defaultGroup, devs")
}

func TestScenario_LobbySuppression(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	banner(cfg, "lobby suppression")
	addr := relayAddr(t, cfg)

	alice := dialClient(t, addr)
	alice.connect("alice")
	bob := dialClient(t, addr)
	bob.connect("bob")
	carol := dialClient(t, addr)
	carol.connect("carol")

	// bob joins a named group and stops hearing the lobby
	bob.send("/create devs")
	bob.expect("Group devs created.")

	alice.send("hello everyone")
	alice.expect("[defaultGroup] alice: hello everyone")
	carol.expect("[defaultGroup] alice: hello everyone")
	bob.expectNothing(300 * time.Millisecond)
}

func TestScenario_ModeratedMessage(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	if cfg.ServerAddr != "" {
		t.Skip("moderation settings unknown for an external relay")
	}
	banner(cfg, "moderated message")
	addr := relayAddr(t, cfg)

	alice := dialClient(t, addr)
	alice.connect("alice")
	bob := dialClient(t, addr)
	bob.connect("bob")

	// "idiot" is part of the embedded en dictionary
	alice.send("/sendUser bob what an idiot")
	bob.expect("alice (private): what an *****")
}
