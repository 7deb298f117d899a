// Package apperrors defines the error kinds shared by the game, lobby, and
// session layers and maps them to the wire-protocol tag the router sends back
// to the offending client.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories a handler can return.
type Kind string

const (
	KindGameNotFound     Kind = "GameNotFound"
	KindPlayerNotInGame  Kind = "PlayerNotInGame"
	KindNotPlayerTurn    Kind = "NotPlayerTurn"
	KindInvalidMove      Kind = "InvalidMove"
	KindLobbyFull        Kind = "LobbyFull"
	KindLobbyNotFound    Kind = "LobbyNotFound"
	KindNotEnoughPlayers Kind = "NotEnoughPlayers"
	KindNotHost          Kind = "NotHost"
	KindUnknownMessage   Kind = "UnknownMessage"
	KindTransportClosed  Kind = "TransportClosed"
	KindAuthRejected     Kind = "AuthRejected"
)

// Error is a sentinel-wrapped error carrying a Kind and an optional reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// New builds an Error of the given kind with no extra reason.
func New(kind Kind) error {
	return &Error{Kind: kind}
}

// Newf builds an InvalidMove-style Error with a formatted reason.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

var (
	ErrGameNotFound     = New(KindGameNotFound)
	ErrPlayerNotInGame  = New(KindPlayerNotInGame)
	ErrNotPlayerTurn    = New(KindNotPlayerTurn)
	ErrLobbyFull        = New(KindLobbyFull)
	ErrLobbyNotFound    = New(KindLobbyNotFound)
	ErrNotEnoughPlayers = New(KindNotEnoughPlayers)
	ErrNotHost          = New(KindNotHost)
	ErrUnknownMessage   = New(KindUnknownMessage)
	ErrTransportClosed  = New(KindTransportClosed)
	ErrAuthRejected     = New(KindAuthRejected)
)

// InvalidMove builds the one error kind that always carries a reason.
func InvalidMove(format string, args ...interface{}) error {
	return Newf(KindInvalidMove, format, args...)
}

// As reports whether err is an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" if err is not an *apperrors.Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
