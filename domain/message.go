package domain

import (
	"fmt"
	"strings"
)

// DefaultGroup is the implicit lobby every session joins on registration.
// The name is part of the wire format of lobby traffic, so it must stay
// exactly this token to interoperate with unchanged peers.
const DefaultGroup = "defaultGroup"

// Notices sent verbatim to clients. Unmodified peers match on these
// strings, so they are wire contract, not UI copy.
const (
	PromptUsername        = "Enter your username:"
	NoticeNameTaken       = "Username already taken. Please choose another username."
	NoticeGoodbye         = "Goodbye!"
	NoticeGroupNotFound   = "Group does not exist."
	NoticeUserNotFound    = "User not found."
	NoticeLeftDefault     = "You have left the default group."
	NoticeNoUsers         = "No users are currently connected."
	NoticeNoGroups        = "No groups have been created."
	NoticeBareSlash       = "Please enter a message after '/'."
	NoticeUnknownCommand  = "Unknown command."
	NoticeDefaultConflict = "You cannot send messages to default group while being in other groups."
)

func Welcome(username string) string {
	return fmt.Sprintf("Welcome, %s!", username)
}

func GroupCreated(group string) string {
	return fmt.Sprintf("Group %s created.", group)
}

func AlreadyInGroup(group string) string {
	return fmt.Sprintf("You are already in the group: %s", group)
}

func JoinedGroup(group string) string {
	return fmt.Sprintf("You have joined the group: %s", group)
}

func LeftGroup(group string) string {
	return fmt.Sprintf("You have left the group: %s", group)
}

func NotAMember(group string) string {
	return fmt.Sprintf("You are not a member of the group: %s", group)
}

// FormatGroupMessage renders one group frame, sender included.
func FormatGroupMessage(group, sender, body string) string {
	return fmt.Sprintf("[%s] %s: %s", group, sender, body)
}

// FormatPrivateMessage renders one direct frame.
func FormatPrivateMessage(sender, body string) string {
	return fmt.Sprintf("%s (private): %s", sender, body)
}

func ConnectedUsers(usernames []string) string {
	if len(usernames) == 0 {
		return NoticeNoUsers
	}
	return "Connected users: " + strings.Join(usernames, ", ")
}

func AvailableGroups(groups []string) string {
	if len(groups) == 0 {
		return NoticeNoGroups
	}
	return "Available groups: " + strings.Join(groups, ", ")
}
