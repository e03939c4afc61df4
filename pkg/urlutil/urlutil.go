// Package urlutil holds pure URL transforms shared by the normalizer,
// the dedupe cache, and the crawler engine. Grounded on the teacher's
// pkg/urlutil.Canonicalize; extended with origin/scheme helpers the
// teacher didn't need because it only ever crawled http(s).
package urlutil

import "net/url"

// Canonicalize applies a deterministic normalization to a URL so that
// equivalent spellings collapse to one representation before they hit
// the dedupe cache.
//
// Rules:
//   - scheme and host are lowercased
//   - default ports (:80 for http, :443 for https) are stripped
//   - the fragment is removed
//   - trailing path slashes are removed (except for the root "/")
//
// Canonicalize does not touch the query string: two URLs differing
// only by query are still distinct targets to fetch.
//
// Properties: pure, deterministic, idempotent.
func Canonicalize(in url.URL) url.URL {
	out := in

	out.Scheme = lowerASCII(out.Scheme)
	out.Host = lowerASCII(out.Host)

	if host, port := out.Hostname(), out.Port(); port != "" {
		if (out.Scheme == "http" && port == "80") || (out.Scheme == "https" && port == "443") {
			out.Host = host
		}
	}

	if len(out.Path) > 1 {
		out.Path = stripTrailingSlash(out.Path)
	}

	out.Fragment = ""
	out.RawFragment = ""

	return out
}

// StripFragment removes the fragment from u, per spec §4.2 step 3.
func StripFragment(u url.URL) url.URL {
	u.Fragment = ""
	u.RawFragment = ""
	return u
}

// DedupeKey returns the structural identity used by the dedupe cache:
// scheme, host, port, path, and query. This answers spec §9's open
// question in favor of structural equality over raw string equality.
func DedupeKey(u url.URL) string {
	c := Canonicalize(u)
	return c.Scheme + "://" + c.Host + c.Path + "?" + c.RawQuery
}

// Origin returns the RFC 6454 origin tuple (scheme, host, port) as a
// single comparable string, used by the recursion scope check.
func Origin(u url.URL) string {
	c := Canonicalize(u)
	return c.Scheme + "://" + c.Host
}

// Scheme classifies a URL's scheme for fetchability, per spec §4.2
// step 4.
type Scheme int

const (
	SchemeHTTP Scheme = iota
	SchemeFile
	SchemeOther
)

// ClassifyScheme maps a raw scheme string to its Scheme bucket.
func ClassifyScheme(scheme string) Scheme {
	switch lowerASCII(scheme) {
	case "http", "https":
		return SchemeHTTP
	case "file":
		return SchemeFile
	default:
		return SchemeOther
	}
}

func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
