// Package visitor derives a pseudo-stable identifier for anonymous
// readers so view counting can be deduplicated without accounts.
package visitor

import "encoding/base64"

// Unknown substitutes for a missing signal. Requests with neither an
// address nor a user agent all collapse into one identifier; that is an
// accepted approximation, not something to compensate for here.
const Unknown = "unknown"

// maxAgentDigest bounds the encoded user-agent part so the identifier
// fits a fixed-width column.
const maxAgentDigest = 50

// Fingerprint combines the network address and the client-declared user
// agent into an opaque identifier. Same inputs, same output; no
// cryptographic guarantee, only practical uniqueness.
func Fingerprint(remoteAddr, userAgent string) string {
	if remoteAddr == "" {
		remoteAddr = Unknown
	}
	if userAgent == "" {
		userAgent = Unknown
	}

	digest := base64.StdEncoding.EncodeToString([]byte(userAgent))
	if len(digest) > maxAgentDigest {
		digest = digest[:maxAgentDigest]
	}
	return remoteAddr + "-" + digest
}
