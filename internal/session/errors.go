package session

import "errors"

// ErrSessionClosed is returned by Evaluate when the session has been
// closed or its worker has stopped.
var ErrSessionClosed = errors.New("lua session is closed")
