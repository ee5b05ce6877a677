package models

// Error codes shared by the backend's error bodies and the client.
const (
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	// InvalidCredentialsMarker prefixes the message of a failed login.
	InvalidCredentialsMarker = "[" + CodeInvalidCredentials + "]"
)
