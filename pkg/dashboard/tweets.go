package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ignacio/twitter-console/pkg/api"
)

// TweetForm holds the editable fields of the tweet form. AuthorID 0 means
// no author is selected.
type TweetForm struct {
	Content  string
	AuthorID int64
}

// TweetSection manages the tweets list and its form state. It also loads
// the user list as a read-only dependency to populate the author
// selector; the users section remains the owner of user mutations.
type TweetSection struct {
	client         *api.Client
	token          string
	onUnauthorized func()
	logger         *slog.Logger

	mu         sync.Mutex
	tweets     []api.Tweet
	users      []api.User
	form       TweetForm
	editingID  *int64
	loading    bool
	submitting bool
	lastErr    string
	closed     bool
}

// NewTweetSection creates a section bound to the given token. See
// NewUserSection for the callback contract.
func NewTweetSection(client *api.Client, token string, onUnauthorized func(), logger *slog.Logger) *TweetSection {
	if logger == nil {
		logger = slog.Default()
	}
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	return &TweetSection{
		client:         client,
		token:          token,
		onUnauthorized: onUnauthorized,
		logger:         logger,
	}
}

// Refresh replaces both the tweet list and the author-selector user list
// with fresh server snapshots. Failure handling matches the users
// section: auth loss fires the callback, anything else keeps the
// last-known-good lists and sets the inline error.
func (s *TweetSection) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	tweets, err := s.client.ListTweets(ctx, s.token)
	var users []api.User
	if err == nil {
		users, err = s.client.ListUsers(ctx, s.token)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = false
	if err != nil {
		if api.IsAuthLoss(err) {
			s.mu.Unlock()
			s.onUnauthorized()
			return
		}
		s.lastErr = api.MessageFor(err)
		s.mu.Unlock()
		s.logger.Warn("refreshing tweets", "error", err)
		return
	}
	s.tweets = tweets
	s.users = users
	s.mu.Unlock()
}

// BeginEdit points the form at an existing tweet, pre-filling content and
// the selected author.
func (s *TweetSection) BeginEdit(tweet api.Tweet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	id := tweet.ID
	s.editingID = &id
	s.form = TweetForm{
		Content:  tweet.Content,
		AuthorID: tweet.Author.ID,
	}
	s.lastErr = ""
}

// ResetForm clears the edit pointer and the form.
func (s *TweetSection) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = nil
	s.form = TweetForm{}
}

// SetForm replaces the form contents.
func (s *TweetSection) SetForm(form TweetForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// Submit validates the form and issues an update when a tweet is being
// edited, otherwise a create. Validation rejects a missing author, empty
// content and over-long content before any network call.
func (s *TweetSection) Submit(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.submitting {
		s.mu.Unlock()
		return
	}
	form := s.form
	editingID := s.editingID
	if msg := validateTweetForm(form); msg != "" {
		s.lastErr = msg
		s.mu.Unlock()
		return
	}
	s.submitting = true
	s.lastErr = ""
	s.mu.Unlock()

	payload := api.TweetRequest{Content: form.Content, AuthorID: form.AuthorID}

	var err error
	if editingID != nil {
		_, err = s.client.UpdateTweet(ctx, *editingID, payload, s.token)
	} else {
		_, err = s.client.CreateTweet(ctx, payload, s.token)
	}

	if err != nil {
		s.finishMutation(err)
		return
	}

	s.Refresh(ctx)

	s.mu.Lock()
	if !s.closed {
		s.editingID = nil
		s.form = TweetForm{}
	}
	s.submitting = false
	s.mu.Unlock()
}

// Remove deletes a tweet and re-reads the list. Deleting the tweet being
// edited also clears the edit pointer.
func (s *TweetSection) Remove(ctx context.Context, id int64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.client.DeleteTweet(ctx, id, s.token); err != nil {
		s.finishMutation(err)
		return
	}

	s.Refresh(ctx)

	s.mu.Lock()
	if !s.closed && s.editingID != nil && *s.editingID == id {
		s.editingID = nil
		s.form = TweetForm{}
	}
	s.mu.Unlock()
}

func (s *TweetSection) finishMutation(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.submitting = false
	if api.IsAuthLoss(err) {
		s.mu.Unlock()
		s.onUnauthorized()
		return
	}
	s.lastErr = api.MessageFor(err)
	s.mu.Unlock()
	s.logger.Warn("tweet mutation failed", "error", err)
}

// Close tears the section down; late-resolving operations become no-ops.
func (s *TweetSection) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Tweets returns a copy of the cached tweet list.
func (s *TweetSection) Tweets() []api.Tweet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tweets)
}

// Users returns a copy of the author-selector user list.
func (s *TweetSection) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

// Form returns the current form contents.
func (s *TweetSection) Form() TweetForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// EditingID returns the id being edited, if any.
func (s *TweetSection) EditingID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == nil {
		return 0, false
	}
	return *s.editingID, true
}

// Loading reports whether a refresh is in flight.
func (s *TweetSection) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Submitting reports whether a submit is in flight.
func (s *TweetSection) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Err returns the section's last inline error message, or "".
func (s *TweetSection) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func validateTweetForm(form TweetForm) string {
	switch {
	case form.AuthorID == 0:
		return "Select an author"
	case form.Content == "":
		return "Content is required"
	case api.ContentLength(form.Content) > api.MaxTweetLength:
		return fmt.Sprintf("Content must be %d characters or fewer", api.MaxTweetLength)
	}
	return ""
}
