package domain

import (
	"bytes"

	goccy_json "github.com/goccy/go-json"
)

// AuthMode selects which credentials an inspection request carries.
type AuthMode int

const (
	AuthNone AuthMode = iota + 1
	AuthTokenOnly
	AuthKeyOnly
	AuthFull
)

// AuthModes lists the credential combinations tried by an inspection, from
// none to full.
func AuthModes() []AuthMode {
	return []AuthMode{AuthNone, AuthTokenOnly, AuthKeyOnly, AuthFull}
}

func (m AuthMode) String() string {
	switch m {
	case AuthNone:
		return "no auth"
	case AuthTokenOnly:
		return "bearer token only"
	case AuthKeyOnly:
		return "API key only"
	case AuthFull:
		return "bearer token and API key"
	default:
		return "unknown"
	}
}

func (m AuthMode) SendsToken() bool {
	return m == AuthTokenOnly || m == AuthFull
}

func (m AuthMode) SendsKey() bool {
	return m == AuthKeyOnly || m == AuthFull
}

// RawResponse is an admin API answer kept as received.
type RawResponse struct {
	StatusCode int
	Status     string
	Header     map[string][]string
	Body       []byte
}

type BodyKind int

const (
	BodyEmpty BodyKind = iota + 1
	BodyJSON
	BodyHTML
	BodyText
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyJSON:
		return "json"
	case BodyHTML:
		return "html"
	case BodyText:
		return "text"
	default:
		return "unknown"
	}
}

// ClassifyBody tells what a response body looks like. Tunnels and proxies in
// front of the API tend to answer with HTML error pages.
func ClassifyBody(body []byte) BodyKind {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return BodyEmpty
	case goccy_json.Valid(trimmed):
		return BodyJSON
	case trimmed[0] == '<':
		return BodyHTML
	default:
		return BodyText
	}
}

// Inspection is the result of one read-only request against the collection.
// Err is set when no answer came back at all.
type Inspection struct {
	Mode     AuthMode
	Response *RawResponse
	Err      error
}
