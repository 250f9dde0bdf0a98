package model

import "strings"

// AnonymousKey is the history bucket for submissions without name or email.
const AnonymousKey = "anonymous"

// Identity is the client-supplied student identity. It carries no authority:
// there are no accounts, so the system trusts whatever the client claims.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IdentityRequest is the payload for issuing an identity token.
type IdentityRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Email string `json:"email" binding:"omitempty,email,max=254"`
}

// PersonalKey returns the normalized key used for personal-history lookups:
// lowercased email, falling back to lowercased name, falling back to the
// anonymous bucket.
func (i Identity) PersonalKey() string {
	if e := strings.TrimSpace(i.Email); e != "" {
		return strings.ToLower(e)
	}
	if n := strings.TrimSpace(i.Name); n != "" {
		return strings.ToLower(n)
	}
	return AnonymousKey
}
