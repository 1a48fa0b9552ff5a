package dto

// AuthResponse is returned by login and refresh. The refresh token travels
// only in the session cookie.
type AuthResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresIn   int64   `json:"expiresIn"`
	User        UserDTO `json:"user"`
}
