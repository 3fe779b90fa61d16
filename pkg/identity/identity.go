// Package identity contains helpers for the opaque identifier strings
// (DIDs, handles, AT-URIs) that flow through the read path. Identifiers
// are compared by exact string equality and never normalized here.
package identity

import "strings"

const (
	didPrefix = "did:"
	uriPrefix = "at://"
)

// IsDID reports whether s looks like a DID rather than a handle.
func IsDID(s string) bool {
	return strings.HasPrefix(s, didPrefix)
}

// IsATURI reports whether s is an AT-URI (a record reference) rather
// than an account identifier.
func IsATURI(s string) bool {
	return strings.HasPrefix(s, uriPrefix)
}

// ProfileURI returns the AT-URI of an account's self profile record.
func ProfileURI(did string) string {
	return uriPrefix + did + "/app.skylark.actor.profile/self"
}

// SplitHandlesAndDIDs partitions a mixed identifier list, preserving
// relative order within each partition.
func SplitHandlesAndDIDs(ids []string) (handles, dids []string) {
	for _, id := range ids {
		if IsDID(id) {
			dids = append(dids, id)
		} else {
			handles = append(handles, id)
		}
	}
	return handles, dids
}
