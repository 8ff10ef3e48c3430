package wpa

import "fmt"

// ConnectivityError means the device could not be reached at all:
// connection refused, DNS failure, timeout, cancelled request.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: device unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// AuthenticationError means the device answered but rejected the credentials.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "login rejected by device"
	}
	return fmt.Sprintf("login rejected by device: %s", e.Reason)
}

// ProtocolError means the device answered with something we could not parse
// into the expected shape. Form names the management form that was queried.
type ProtocolError struct {
	Form string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response for form %q: %v", e.Form, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
