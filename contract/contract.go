//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// LineSink delivers one text frame to a connected client.
// Implementations must never block the caller: delivery is best-effort and
// a full outbound queue results in an error, not a stall. Registry fan-out
// runs under the registry lock and relies on this.
type LineSink interface {
	Send(line string) error
}

// IRegistry is the process-wide directory of connected usernames and group
// memberships. Every operation is atomic with respect to the others.
// Expected conditions (unknown user, unknown group, duplicate membership)
// are reported as notices on the acting session's sink, never as errors.
type IRegistry interface {
	Register(username string, sink LineSink) error
	Deregister(username string)
	CreateGroup(group, username string)
	JoinGroup(group, username string)
	LeaveGroup(group, username string)
	SendToUser(recipient, line, sender string)
	SendToGroup(group, body, sender string)
	ListUsers() string
	ListGroups() string
	InOtherGroups(username string) bool
}
