// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package utils

import (
	"strings"
)

// StripQuery removes the query string (and fragment) from a URL string.
// The upstream online-meetings filter matches on the join URL without its
// query parameters, so both sides of the comparison are stripped the same way.
func StripQuery(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}

// NormalizeJoinURL canonicalizes an online-meeting join URL for equality
// comparison. Two join URLs that differ only in letter case, query string,
// trailing slash, or the trailing "/0" meeting-sequence suffix refer to the
// same meeting.
func NormalizeJoinURL(rawURL string) string {
	u := strings.ToLower(strings.TrimSpace(StripQuery(rawURL)))
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/0")
	return strings.TrimSuffix(u, "/")
}

// JoinURLsEqual reports whether two join URLs refer to the same meeting
// after normalization.
func JoinURLsEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeJoinURL(a) == NormalizeJoinURL(b)
}

// EscapeODataQuote escapes single quotes for use inside an OData string
// literal filter expression.
func EscapeODataQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// CandidateMailboxes builds the ordered candidate mailbox list used by the
// join-URL fallback search. Addresses are lower-cased and deduplicated while
// preserving first-seen order. Empty strings and the literal "me" are
// excluded: "me" is only meaningful for session-authorized calls and can
// never be probed as a concrete mailbox.
func CandidateMailboxes(addresses ...string) []string {
	seen := make(map[string]bool, len(addresses))
	candidates := make([]string, 0, len(addresses))

	for _, addr := range addresses {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || addr == "me" {
			continue
		}
		if seen[addr] {
			continue
		}
		seen[addr] = true
		candidates = append(candidates, addr)
	}

	return candidates
}
