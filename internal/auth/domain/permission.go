// Package domain defines members, API keys and the hierarchical permission model used to
// authorize every protected endpoint.
//
// A permission is a "::" delimited string such as "Storage::Read". A granted segment equal to
// "*" matches the remainder of any requested permission, so "Storage::*" authorizes
// "Storage::Read" and "Storage::Read::Anything", and a bare "*" authorizes everything.
// Grants without a wildcard only authorize the exact same string.
package domain

import (
	"strings"
	"time"
)

const (
	// PermissionSeparator delimits permission segments.
	PermissionSeparator = "::"
	// PermissionWildcard matches the remaining requested segments.
	PermissionWildcard = "*"
)

// Permission is a globally unique capability string that can be granted to API keys.
type Permission struct {
	ID        int64
	Key       string
	CreatedAt time.Time
}

// Namespaces covered by the permission catalog.
const (
	NamespaceStorage        = "Storage"
	NamespaceHosting        = "Hosting"
	NamespaceCerts          = "Certs"
	NamespaceCloudContainer = "CloudContainer"
)

// Actions defined for every catalog namespace.
const (
	ActionAll   = PermissionWildcard
	ActionRead  = "Read"
	ActionWrite = "Write"
)

// Permissions checked by the HTTP layer.
var (
	PermStorageRead         = Key(NamespaceStorage, ActionRead)
	PermStorageWrite        = Key(NamespaceStorage, ActionWrite)
	PermHostingRead         = Key(NamespaceHosting, ActionRead)
	PermHostingWrite        = Key(NamespaceHosting, ActionWrite)
	PermCertsRead           = Key(NamespaceCerts, ActionRead)
	PermCertsWrite          = Key(NamespaceCerts, ActionWrite)
	PermCloudContainerAll   = Key(NamespaceCloudContainer, ActionAll)
	PermCloudContainerRead  = Key(NamespaceCloudContainer, ActionRead)
	PermCloudContainerWrite = Key(NamespaceCloudContainer, ActionWrite)
)

// Key joins segments into a permission string.
func Key(segments ...string) string {
	return strings.Join(segments, PermissionSeparator)
}

// Catalog returns the seedable permission set: every namespace crossed with "*", "Read" and
// "Write". The order is stable.
func Catalog() []string {
	namespaces := []string{NamespaceStorage, NamespaceHosting, NamespaceCerts, NamespaceCloudContainer}
	actions := []string{ActionAll, ActionRead, ActionWrite}

	keys := make([]string, 0, len(namespaces)*len(actions))
	for _, ns := range namespaces {
		for _, action := range actions {
			keys = append(keys, Key(ns, action))
		}
	}
	return keys
}

// HasPermission reports whether any granted permission satisfies requested.
//
// Segments are compared in lock-step up to the shorter list. A granted "*" segment matches
// immediately, a differing segment rejects that grant, and a grant that runs out without a
// wildcard matches only when it is exactly equal to requested. An empty grant set never matches.
func HasPermission(granted []string, requested string) bool {
	requestedSegments := strings.Split(requested, PermissionSeparator)

	for _, grant := range granted {
		if matchPermission(strings.Split(grant, PermissionSeparator), requestedSegments) {
			return true
		}
	}
	return false
}

func matchPermission(granted, requested []string) bool {
	n := min(len(granted), len(requested))
	for i := 0; i < n; i++ {
		if granted[i] == PermissionWildcard {
			return true
		}
		if granted[i] != requested[i] {
			return false
		}
	}

	// Equal prefixes: only an exact match is authorized. "Storage::Read" does not imply
	// "Storage::Read::Specific".
	return len(granted) == len(requested)
}
