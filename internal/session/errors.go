package session

import (
	"errors"
	"net/http"

	"github.com/aryan0dhankhar/leaddesk/internal/apiclient"
)

// User-facing login and registration messages
const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUserNotFound        = "User not found"
	MsgServerUnreachable   = "Unable to reach the server. Please try again later."
	MsgLoginFailed         = "Login failed. Please try again."
	MsgInvalidRegistration = "Invalid registration data. Please check your inputs."
	MsgEmailTaken          = "An account with this email already exists."
	MsgRegisterFailed      = "Registration failed. Please try again later."
	MsgRegistered          = "Registration successful! You can now login."
)

// AuthError is a login or registration failure with a readable message
type AuthError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func loginError(err error) *AuthError {
	status := apiclient.StatusCode(err)
	msg := MsgLoginFailed
	switch {
	case errors.Is(err, apiclient.ErrNetwork):
		msg = MsgServerUnreachable
	case status == http.StatusUnauthorized:
		msg = MsgInvalidCredentials
	case status == http.StatusNotFound:
		msg = MsgUserNotFound
	default:
		if m := apiclient.BackendMessage(err); m != "" {
			msg = m
		}
	}
	return &AuthError{Message: msg, StatusCode: status, Err: err}
}

func registerError(err error) *AuthError {
	status := apiclient.StatusCode(err)
	msg := MsgRegisterFailed
	switch {
	case apiclient.BackendMessage(err) != "":
		msg = apiclient.BackendMessage(err)
	case status == http.StatusBadRequest:
		msg = MsgInvalidRegistration
	case status == http.StatusConflict:
		msg = MsgEmailTaken
	}
	return &AuthError{Message: msg, StatusCode: status, Err: err}
}
