package api

import "unicode/utf16"

// User is a user record as returned by the backend.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Handle    string `json:"handle"`
}

// Tweet is a tweet record as returned by the backend. Author is resolved
// server-side from the author id; list responses may return an author that
// carries only an id (see dashboard.AuthorLabel).
type Tweet struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
	Timestamp string `json:"timestamp,omitempty"`
}

// UserRequest is the payload for creating or updating a user. Update
// replaces all editable fields with whatever the payload carries,
// including blanks.
type UserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Handle    string `json:"handle"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// TweetRequest is the payload for creating or updating a tweet.
type TweetRequest struct {
	Content  string `json:"content"`
	AuthorID int64  `json:"authorId"`
}

// TokenRequest is the credential payload for the token endpoint.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the result of a successful credential exchange.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	Actions     []string `json:"actions"`
}

// MaxTweetLength is the largest tweet content the backend accepts,
// measured in UTF-16 code units.
const MaxTweetLength = 200

// ContentLength reports the length of s in UTF-16 code units, the unit the
// backend uses to enforce MaxTweetLength.
func ContentLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
