package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Commands(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{
			name:     "Quit",
			input:    "/quit",
			expected: QuitCommand{},
		},
		{
			name:     "Quit is case insensitive",
			input:    "/QuIt",
			expected: QuitCommand{},
		},
		{
			name:     "Direct message with spaces in the body",
			input:    "/sendUser bob hi there",
			expected: SendUserCommand{Recipient: "bob", Body: "hi there"},
		},
		{
			name:     "Direct message without body",
			input:    "/sendUser bob",
			expected: MalformedCommand{Usage: UsageSendUser},
		},
		{
			name:     "Direct message without recipient",
			input:    "/sendUser",
			expected: MalformedCommand{Usage: UsageSendUser},
		},
		{
			name:     "Create",
			input:    "/create devs",
			expected: CreateCommand{Group: "devs"},
		},
		{
			name:     "Create without a name",
			input:    "/create",
			expected: MalformedCommand{Usage: UsageCreate},
		},
		{
			name:     "Join",
			input:    "/join devs",
			expected: JoinCommand{Group: "devs"},
		},
		{
			name:     "Leave",
			input:    "/leave devs",
			expected: LeaveCommand{Group: "devs"},
		},
		{
			name:     "Group message",
			input:    "/sendGroup devs hello world",
			expected: SendGroupCommand{Group: "devs", Body: "hello world"},
		},
		{
			name:     "Group message without body",
			input:    "/sendGroup devs",
			expected: MalformedCommand{Usage: UsageSendGroup},
		},
		{
			name:     "List users",
			input:    "/listUsers",
			expected: ListUsersCommand{},
		},
		{
			name:     "List groups",
			input:    "/listGroups",
			expected: ListGroupsCommand{},
		},
		{
			name:     "Bare slash",
			input:    "/",
			expected: BareSlashCommand{},
		},
		{
			name:     "Plain line targets the default group",
			input:    "hello everyone",
			expected: BroadcastCommand{Body: "hello everyone"},
		},
		{
			name:     "Empty line",
			input:    "",
			expected: UnknownCommand{},
		},
		{
			name:     "Unrecognized slash command",
			input:    "/dance",
			expected: UnknownCommand{},
		},
		{
			name:     "Command names match the exact token",
			input:    "/sendUserX bob hi",
			expected: UnknownCommand{},
		},
		{
			name:     "Command names are case sensitive",
			input:    "/LISTUSERS",
			expected: UnknownCommand{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, Parse(tt.input), "input=%q", tt.input)
		})
	}
}
