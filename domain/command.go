// Package domain contains core concepts of the chat relay.
// This file defines the closed set of client commands and the single
// parse step that classifies one inbound line.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// Command is the tagged variant produced by Parse. The session dispatches
// on it with an exhaustive type switch, so adding a command means adding
// a variant here and a case there, nothing else.
type Command interface {
	isCommand()
}

type QuitCommand struct{}

type SendUserCommand struct {
	Recipient string
	Body      string
}

type CreateCommand struct {
	Group string
}

type JoinCommand struct {
	Group string
}

type LeaveCommand struct {
	Group string
}

type SendGroupCommand struct {
	Group string
	Body  string
}

type ListUsersCommand struct{}

type ListGroupsCommand struct{}

// BroadcastCommand is any non-empty line without a leading slash.
// It targets the default group, subject to the other-group gate.
type BroadcastCommand struct {
	Body string
}

type BareSlashCommand struct{}

// MalformedCommand carries the usage notice for a command missing
// required tokens.
type MalformedCommand struct {
	Usage string
}

type UnknownCommand struct{}

func (QuitCommand) isCommand()       {}
func (SendUserCommand) isCommand()   {}
func (CreateCommand) isCommand()     {}
func (JoinCommand) isCommand()       {}
func (LeaveCommand) isCommand()      {}
func (SendGroupCommand) isCommand()  {}
func (ListUsersCommand) isCommand()  {}
func (ListGroupsCommand) isCommand() {}
func (BroadcastCommand) isCommand()  {}
func (BareSlashCommand) isCommand()  {}
func (MalformedCommand) isCommand()  {}
func (UnknownCommand) isCommand()    {}

const (
	UsageSendUser  = "Usage: /sendUser username message"
	UsageCreate    = "Usage: /create groupName"
	UsageJoin      = "Usage: /join groupName"
	UsageLeave     = "Usage: /leave groupName"
	UsageSendGroup = "Usage: /sendGroup groupName message"
)

// Parse classifies one inbound line. Command names are matched on the exact
// first token, case-sensitive except /quit. Missing required tokens yield a
// MalformedCommand instead of faulting.
func Parse(line string) Command {
	if strings.EqualFold(line, "/quit") {
		return QuitCommand{}
	}
	if line == "/" {
		return BareSlashCommand{}
	}
	if !strings.HasPrefix(line, "/") {
		if line == "" {
			return UnknownCommand{}
		}
		return BroadcastCommand{Body: line}
	}

	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case "/sendUser":
		recipient, body, _ := strings.Cut(rest, " ")
		if recipient == "" || body == "" {
			return MalformedCommand{Usage: UsageSendUser}
		}
		return SendUserCommand{Recipient: recipient, Body: body}
	case "/create":
		group, _, _ := strings.Cut(rest, " ")
		if group == "" {
			return MalformedCommand{Usage: UsageCreate}
		}
		return CreateCommand{Group: group}
	case "/join":
		group, _, _ := strings.Cut(rest, " ")
		if group == "" {
			return MalformedCommand{Usage: UsageJoin}
		}
		return JoinCommand{Group: group}
	case "/leave":
		group, _, _ := strings.Cut(rest, " ")
		if group == "" {
			return MalformedCommand{Usage: UsageLeave}
		}
		return LeaveCommand{Group: group}
	case "/sendGroup":
		group, body, _ := strings.Cut(rest, " ")
		if group == "" || body == "" {
			return MalformedCommand{Usage: UsageSendGroup}
		}
		return SendGroupCommand{Group: group, Body: body}
	case "/listUsers":
		return ListUsersCommand{}
	case "/listGroups":
		return ListGroupsCommand{}
	default:
		return UnknownCommand{}
	}
}
