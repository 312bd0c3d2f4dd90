package domain

// AuthPayload is the claim set the grader reads from access tokens.
type AuthPayload struct {
	Subject    string   `json:"sub"`
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}

// UserID returns the subject claim, falling back to the username.
func (p AuthPayload) UserID() string {
	if p.Subject != "" {
		return p.Subject
	}
	return p.Username
}
