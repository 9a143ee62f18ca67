package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrRoomAlreadyExists  = fmt.Errorf("room already exists")
	ErrTargetUnreachable  = fmt.Errorf("signaling target unreachable")
	ErrMalformedEvent     = fmt.Errorf("malformed event")
	ErrUnknownEvent       = fmt.Errorf("unknown event")
	ErrEngineStopped      = fmt.Errorf("engine stopped")
	ErrSinkFull           = fmt.Errorf("connection send buffer full")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrUsernameMismatch   = fmt.Errorf("username does not match token")
)

// MapToHTTPStatus translates a domain error into the status code of the HTTP surface.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMalformedEvent):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomAlreadyExists), errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrEngineStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
