package domain

import (
	interfaces "cipherchat/internal/domain/interfaces"
	types "cipherchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username      = types.Username
	Fingerprint   = types.Fingerprint
	Identity      = types.Identity
	X25519Public  = types.X25519Public
	X25519Private = types.X25519Private
	Reply         = types.Reply
	Credentials   = types.Credentials
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore      = interfaces.IdentityStore
	CredentialVerifier = interfaces.CredentialVerifier
	UserStore          = interfaces.UserStore
	KeyStore           = interfaces.KeyStore
	StatusSink         = interfaces.StatusSink
)

// Protocol constants re-exported from the types subpackage.
const (
	AdministratorName = types.AdministratorName
	ServerIdentity    = types.ServerIdentity

	FlagGranted    = types.FlagGranted
	FlagDenied     = types.FlagDenied
	FieldSeparator = types.FieldSeparator

	ReasonUsernameExists   = types.ReasonUsernameExists
	ReasonUsernameReserved = types.ReasonUsernameReserved
	ReasonBadCredentials   = types.ReasonBadCredentials
	LoginSucceeded         = types.LoginSucceeded
)

// Helpers re-exported from the types subpackage.
var (
	ParseReply     = types.ParseReply
	FormatChatLine = types.FormatChatLine
)
