// Package querystring builds links to the current admin screen with some parameters changed.
package querystring

import (
	"net/url"
)

// PageParameter carries the page number of a change list. Links built here always lead
// back to the first page.
const PageParameter = "p"

// Build returns "?"+query of params with set applied and remove dropped. A nil value in
// set removes that parameter too. params itself is not modified.
func Build(params url.Values, set map[string]*string, remove ...string) string {
	out := make(url.Values, len(params))
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	out.Del(PageParameter)
	for _, k := range remove {
		out.Del(k)
	}
	for k, v := range set {
		if v == nil {
			out.Del(k)
			continue
		}
		out.Set(k, *v)
	}
	return "?" + out.Encode()
}

// Ptr is a helper for values of the set argument of Build.
func Ptr(s string) *string {
	return &s
}
