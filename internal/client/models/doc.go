// Package models defines the client-side view of accounts, roles and sessions
// and the JSON payloads exchanged with the account backend.
package models
