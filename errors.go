package taskpilot

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the TaskPilot client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is an exported constant or variable used by the TaskPilot client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is an exported constant or variable used by the TaskPilot client.
	ErrAccountExists = errors.New("account already exists")
	// ErrRegistrationInvalid is an exported constant or variable used by the TaskPilot client.
	ErrRegistrationInvalid = errors.New("invalid registration request")
	// ErrAuthInFlight is an exported constant or variable used by the TaskPilot client.
	ErrAuthInFlight = errors.New("auth operation already in flight")
	// ErrServiceUnavailable is an exported constant or variable used by the TaskPilot client.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrNoSession is an exported constant or variable used by the TaskPilot client.
	ErrNoSession = errors.New("no active session")
	// ErrTokenInvalid is an exported constant or variable used by the TaskPilot client.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTaskNotFound is an exported constant or variable used by the TaskPilot client.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskInvalid is an exported constant or variable used by the TaskPilot client.
	ErrTaskInvalid = errors.New("invalid task request")
	// ErrClientNotReady is an exported constant or variable used by the TaskPilot client.
	ErrClientNotReady = errors.New("client not initialized")
)
