// Package dashboard implements the console's resource sections: two
// parallel CRUD state managers, one for users and one for tweets. Each
// section owns a cached list that is always a full server-truth snapshot:
// every successful mutation triggers exactly one authoritative refresh and
// the mutation's own response payload is discarded for list consistency.
// Authorization loss on any call is reported upward through the section's
// unauthorized callback; sections never mutate the session themselves.
package dashboard

import (
	"fmt"

	"github.com/ignacio/twitter-console/pkg/api"
)

// AuthorLabel returns the display label for a tweet's author: the resolved
// handle when the backend returned one, otherwise a fallback built from
// the author id. List responses can carry an author with only a dangling
// id; the fallback keeps those rows renderable.
func AuthorLabel(t api.Tweet) string {
	if t.Author.Handle != "" {
		return t.Author.Handle
	}
	return fmt.Sprintf("user-%d", t.Author.ID)
}
