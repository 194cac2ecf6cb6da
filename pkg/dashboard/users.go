package dashboard

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/ignacio/twitter-console/pkg/api"
)

// UserForm holds the editable fields of the user form. On edit pre-fill
// the username and password stay blank; the submit payload carries
// whatever the form currently holds, including blanks.
type UserForm struct {
	FirstName string
	LastName  string
	Email     string
	Handle    string
	Username  string
	Password  string
}

// UserSection manages the users list and its create/update/delete form
// state. It is created per dashboard view; Close tears it down and makes
// any still-in-flight operation discard its result.
type UserSection struct {
	client         *api.Client
	token          string
	onUnauthorized func()
	logger         *slog.Logger

	mu         sync.Mutex
	users      []api.User
	form       UserForm
	editingID  *int64
	loading    bool
	submitting bool
	lastErr    string
	closed     bool
}

// NewUserSection creates a section bound to the given token. The
// onUnauthorized callback is invoked whenever a call detects
// authorization loss; it is owned by the page-level glue, which is
// expected to clear the session and navigate away.
func NewUserSection(client *api.Client, token string, onUnauthorized func(), logger *slog.Logger) *UserSection {
	if logger == nil {
		logger = slog.Default()
	}
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	return &UserSection{
		client:         client,
		token:          token,
		onUnauthorized: onUnauthorized,
		logger:         logger,
	}
}

// Refresh replaces the cached list with a fresh server snapshot. On
// authorization loss the callback fires and the existing list is left
// untouched; on any other failure the last error is set and the
// last-known-good list survives.
func (s *UserSection) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	users, err := s.client.ListUsers(ctx, s.token)

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
		s.logger.Warn("refreshing users", "error", err)
		return
	}
	s.users = users
	s.mu.Unlock()
}

// BeginEdit points the form at an existing user. Username and password
// are intentionally left blank: update must not require re-submitting
// credentials unless they changed.
func (s *UserSection) BeginEdit(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	id := user.ID
	s.editingID = &id
	s.form = UserForm{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Handle:    user.Handle,
	}
	s.lastErr = ""
}

// ResetForm clears the edit pointer and the form.
func (s *UserSection) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = nil
	s.form = UserForm{}
}

// SetForm replaces the form contents, as typing into the fields would.
func (s *UserSection) SetForm(form UserForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// Submit validates the form and issues an update when a user is being
// edited, otherwise a create. On success the list is re-read from the
// server and the form cleared; on failure the form retains its input.
func (s *UserSection) Submit(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.submitting {
		s.mu.Unlock()
		return
	}
	form := s.form
	editingID := s.editingID
	if msg := validateUserForm(form); msg != "" {
		s.lastErr = msg
		s.mu.Unlock()
		return
	}
	s.submitting = true
	s.lastErr = ""
	s.mu.Unlock()

	payload := api.UserRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Handle:    form.Handle,
		Username:  form.Username,
		Password:  form.Password,
	}

	var err error
	if editingID != nil {
		_, err = s.client.UpdateUser(ctx, *editingID, payload, s.token)
	} else {
		// Creation goes through the open signup endpoint.
		_, err = s.client.CreateUser(ctx, payload)
	}

	if err != nil {
		s.finishMutation(err)
		return
	}

	s.Refresh(ctx)

	s.mu.Lock()
	if !s.closed {
		s.editingID = nil
		s.form = UserForm{}
	}
	s.submitting = false
	s.mu.Unlock()
}

// Remove deletes a user and re-reads the list. Deleting the user being
// edited also clears the edit pointer.
func (s *UserSection) Remove(ctx context.Context, id int64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.client.DeleteUser(ctx, id, s.token); err != nil {
		s.finishMutation(err)
		return
	}

	s.Refresh(ctx)

	s.mu.Lock()
	if !s.closed && s.editingID != nil && *s.editingID == id {
		s.editingID = nil
		s.form = UserForm{}
	}
	s.mu.Unlock()
}

// finishMutation records a failed mutation: auth loss fires the callback,
// anything else becomes the section's inline error.
func (s *UserSection) finishMutation(err error) {
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
	s.logger.Warn("user mutation failed", "error", err)
}

// Close tears the section down. Operations that complete afterwards
// discard their results instead of mutating torn-down state.
func (s *UserSection) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Users returns a copy of the cached list.
func (s *UserSection) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

// Form returns the current form contents.
func (s *UserSection) Form() UserForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// EditingID returns the id being edited, if any.
func (s *UserSection) EditingID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == nil {
		return 0, false
	}
	return *s.editingID, true
}

// Loading reports whether a refresh is in flight.
func (s *UserSection) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Submitting reports whether a submit is in flight.
func (s *UserSection) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Err returns the section's last inline error message, or "".
func (s *UserSection) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// validateUserForm checks the fields the form marks required. Create and
// update both need credentials because update replaces them server-side.
func validateUserForm(form UserForm) string {
	switch {
	case form.Email == "":
		return "Email is required"
	case form.Handle == "":
		return "Handle is required"
	case form.Username == "":
		return "Username is required"
	case form.Password == "":
		return "Password is required"
	}
	return ""
}
