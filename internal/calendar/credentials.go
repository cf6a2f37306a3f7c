package calendar

import "time"

// expirySkew keeps a credential from being treated as valid right at the
// edge of its lifetime while a request is in flight.
const expirySkew = 30 * time.Second

// Credential is the structured per-user calendar authorization record.
// Refresh never mutates a credential in place; it returns a new one.
type Credential struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scope        string
}

func (credential Credential) Valid(now time.Time) bool {
	if credential.AccessToken == "" {
		return false
	}
	if credential.Expiry.IsZero() {
		return true
	}
	return now.Add(expirySkew).Before(credential.Expiry)
}

func (credential Credential) CanRefresh() bool {
	return credential.RefreshToken != ""
}
