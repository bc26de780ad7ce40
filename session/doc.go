// Package session holds the client's one live session: the access and
// refresh credentials plus the authenticated role.
//
// [Manager] is a dumb, synchronously-consistent holder. It validates
// nothing about token contents; it merges partial writes, writes through to
// a pluggable [Keyring] on every mutation, and owns the unauthorized
// broadcast channel the networking layer publishes on.
package session
