package errors

import "fmt"

var (
	ErrNameTaken     = fmt.Errorf("username already registered")
	ErrSessionClosed = fmt.Errorf("session closed")
	ErrQueueFull     = fmt.Errorf("outbound queue full")
	ErrWorkerPanic   = fmt.Errorf("worker panic")
	ErrEmptyWords    = fmt.Errorf("no words have been found")
)
