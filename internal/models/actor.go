// Package models contains data structures for the forum engine's domain.
package models

// Actor is the authorization capability for a request. It is resolved once
// per request by the identity layer and passed into every mutating service
// call, so services never re-derive roles from profile lookups.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// CanModify reports whether the actor may mutate a resource owned by ownerID.
func (a Actor) CanModify(ownerID uint) bool {
	return a.UserID == ownerID || a.IsAdmin
}
