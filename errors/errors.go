package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
	ErrMalformedEvent     = fmt.Errorf("delivery event carries no fragments")
	ErrIdentityUnresolved = fmt.Errorf("receiving identity unresolved")
	ErrRecordCorrupted    = fmt.Errorf("stored record is corrupted")
	ErrHistoryUnavailable = fmt.Errorf("message history unavailable")
	ErrShutdown           = fmt.Errorf("service shutting down")
)
