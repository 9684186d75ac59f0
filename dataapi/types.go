package dataapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ObjectType names the form field that wraps the JSON payload of a create
// or update call.
type ObjectType string

const (
	// ObjectEntry wraps the payload as "entry"
	ObjectEntry ObjectType = "entry"
	// ObjectContentData wraps the payload as "content_data"
	ObjectContentData ObjectType = "content_data"
)

// Session holds the credentials returned by Authenticate.
type Session struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   string `json:"expiresIn"`
	Remember    string `json:"remember"`
	SessionID   string `json:"sessionId"`
}

// IsAuthenticated reports whether an access token is present
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Params is a set of request parameters. Values are sent as query strings,
// form fields or JSON depending on the call.
type Params map[string]any

// WantsDraft reports whether a list query asks for draft objects, which the
// API only returns to authenticated callers
func (p Params) WantsDraft() bool {
	status, ok := p["status"]
	if !ok {
		return false
	}
	if list, ok := status.([]string); ok {
		return slices.ContainsFunc(list, func(s string) bool {
			return strings.Contains(s, "Draft")
		})
	}
	return strings.Contains(stringify(status), "Draft")
}

// values encodes p for a query string. Slices become repeated keys.
func (p Params) values() url.Values {
	v := make(url.Values, len(p))
	for key, val := range p {
		switch list := val.(type) {
		case []string:
			for _, s := range list {
				v.Add(key, s)
			}
		case []any:
			for _, e := range list {
				v.Add(key, stringify(e))
			}
		default:
			v.Set(key, stringify(val))
		}
	}
	return v
}

// clone returns a shallow copy of p, never nil.
func (p Params) clone() Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Result is a decoded JSON response body. Numbers are kept as json.Number.
type Result map[string]any

// errorResult builds the tagged error shape returned for client-side failures
func errorResult(message string) Result {
	return Result{"error": true, "message": message}
}

// IsError reports whether r is a tagged error result
func (r Result) IsError() bool {
	v, ok := r["error"].(bool)
	return ok && v
}

// Message returns the message of a tagged error result
func (r Result) Message() string {
	msg, _ := r["message"].(string)
	return msg
}

// String returns the value under key rendered as a string, or "" if absent
func (r Result) String(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return stringify(v)
}

// Items returns the objects of a list or search response
func (r Result) Items() []Result {
	raw, ok := r["items"].([]any)
	if !ok {
		return nil
	}
	items := make([]Result, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			items = append(items, Result(m))
		}
	}
	return items
}

// TotalResults returns the totalResults counter of a list response
func (r Result) TotalResults() int {
	n, err := strconv.Atoi(r.String("totalResults"))
	if err != nil {
		return 0
	}
	return n
}

// stringify renders a parameter value the way a form encoder would.
// Booleans become "1" and "0".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
