package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrInvalidIdentity  = fmt.Errorf("identity requires both user id and user name")
	ErrRoomNotFound     = fmt.Errorf("room does not exist")
	ErrRoomExists       = fmt.Errorf("room already exists")
	ErrDuplicateMessage = fmt.Errorf("message already admitted")
	ErrDeliveryFailure  = fmt.Errorf("live delivery failed")
	ErrPersistence      = fmt.Errorf("message persistence failed")
	ErrNotAuthenticated = fmt.Errorf("connection is not authenticated")
	ErrInvalidPayload   = fmt.Errorf("payload does not match event type")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
