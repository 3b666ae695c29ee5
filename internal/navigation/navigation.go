// Package navigation extracts the per-request context a hypermedia client
// sends along with a navigation action or the initial city submission.
package navigation

import (
	"errors"
	"net/url"
	"strings"
)

// ErrCityMissing is returned by FromForm when the city field is absent or blank.
var ErrCityMissing = errors.New("city is required")

// Reserved query keys that map onto named Context fields. Anything else lands
// in Context.Extra.
const (
	KeyDescription = "description"
	KeyFrom        = "from"
	KeyTo          = "to"
	KeyContext     = "context"
	KeyCity        = "city"
)

// Context is the navigation context for a single request. It is built fresh
// for each request and discarded once the response is written.
type Context struct {
	// Action is the slug of the element the user clicked. Empty for the
	// initial city submission.
	Action string
	// City is set only for the initial form submission.
	City string

	Description string
	From        string
	To          string
	Context     string

	// Extra holds every other request parameter verbatim.
	Extra map[string]string
}

// IsSubmission reports whether the context came from the initial city form.
func (c Context) IsSubmission() bool {
	return c.City != ""
}

// FromQuery builds a Context for a GET navigation request. Values are passed
// through untouched; the first value wins for repeated keys.
func FromQuery(action string, q url.Values) Context {
	c := Context{
		Action:      action,
		Description: q.Get(KeyDescription),
		From:        q.Get(KeyFrom),
		To:          q.Get(KeyTo),
		Context:     q.Get(KeyContext),
	}
	for k, vs := range q {
		switch k {
		case KeyDescription, KeyFrom, KeyTo, KeyContext:
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		if len(vs) > 0 {
			c.Extra[k] = vs[0]
		} else {
			c.Extra[k] = ""
		}
	}
	return c
}

// FromForm builds a Context for the initial POST submission. The city is
// trimmed; a blank city yields ErrCityMissing.
func FromForm(form url.Values) (Context, error) {
	city := strings.TrimSpace(form.Get(KeyCity))
	if city == "" {
		return Context{}, ErrCityMissing
	}
	return Context{City: city}, nil
}
