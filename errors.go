package chatclient

import (
	"errors"

	"github.com/docsage/chatclient/session"
)

var (
	// ErrUnauthorized is an exported constant or variable used by the chat client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionTerminated is an exported constant or variable used by the chat client.
	ErrSessionTerminated = session.ErrTerminated
	// ErrRefreshTokenMissing is an exported constant or variable used by the chat client.
	ErrRefreshTokenMissing = errors.New("no refresh token stored")
	// ErrRefreshFailed is an exported constant or variable used by the chat client.
	ErrRefreshFailed = errors.New("access token renewal failed")
	// ErrClientNotReady is an exported constant or variable used by the chat client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrResetStateInvalid is an exported constant or variable used by the chat client.
	ErrResetStateInvalid = errors.New("password reset flow in wrong state")
	// ErrResetAbandoned is an exported constant or variable used by the chat client.
	ErrResetAbandoned = errors.New("password reset flow abandoned")
)
