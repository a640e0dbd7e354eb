package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Formatting is part of the wire contract: unchanged peers match on these
// exact strings.
func TestFormatting_WireContract(t *testing.T) {
	req := require.New(t)

	req.Equal("[devs] alice: hello world", FormatGroupMessage("devs", "alice", "hello world"))
	req.Equal("[defaultGroup] alice: hi", FormatGroupMessage(DefaultGroup, "alice", "hi"))
	req.Equal("alice (private): psst", FormatPrivateMessage("alice", "psst"))
	req.Equal("Welcome, alice!", Welcome("alice"))
	req.Equal("Group devs created.", GroupCreated("devs"))
	req.Equal("You have joined the group: devs", JoinedGroup("devs"))
	req.Equal("You have left the group: devs", LeftGroup("devs"))
	req.Equal("You are not a member of the group: devs", NotAMember("devs"))
	req.Equal("You are already in the group: devs", AlreadyInGroup("devs"))
}

func TestFormatting_Snapshots(t *testing.T) {
	req := require.New(t)

	req.Equal("No users are currently connected.", ConnectedUsers(nil))
	req.Equal("Connected users: alice, bob", ConnectedUsers([]string{"alice", "bob"}))
	req.Equal("No groups have been created.", AvailableGroups(nil))
	req.Equal("Available groups: defaultGroup, devs", AvailableGroups([]string{"defaultGroup", "devs"}))
}
