package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignacio/twitter-console/pkg/api"
)

const usersTestToken = "test-token"

// fakeUserBackend is a minimal in-memory /users backend. Mutations change
// its list so tests can observe that sections re-read server truth instead
// of patching locally.
type fakeUserBackend struct {
	mu     sync.Mutex
	users  []api.User
	nextID int64

	lists   int
	creates int
	updates int
	deletes int
}

func newFakeUserBackend(users ...api.User) *fakeUserBackend {
	b := &fakeUserBackend{users: users, nextID: 100}
	return b
}

func (b *fakeUserBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			b.lists++
			_ = json.NewEncoder(w).Encode(b.users)
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			b.creates++
			var payload api.UserRequest
			_ = json.NewDecoder(r.Body).Decode(&payload)
			user := api.User{ID: b.nextID, FirstName: payload.FirstName, LastName: payload.LastName, Email: payload.Email, Handle: payload.Handle}
			b.nextID++
			b.users = append(b.users, user)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(user)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/users/"):
			b.updates++
			var payload api.UserRequest
			_ = json.NewDecoder(r.Body).Decode(&payload)
			id := pathID(r.URL.Path)
			for i := range b.users {
				if b.users[i].ID == id {
					b.users[i].FirstName = payload.FirstName
					b.users[i].LastName = payload.LastName
					b.users[i].Email = payload.Email
					b.users[i].Handle = payload.Handle
					_ = json.NewEncoder(w).Encode(b.users[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/users/"):
			b.deletes++
			id := pathID(r.URL.Path)
			for i := range b.users {
				if b.users[i].ID == id {
					b.users = append(b.users[:i], b.users[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func pathID(path string) int64 {
	var id int64
	_, _ = fmt.Sscanf(path[strings.LastIndex(path, "/")+1:], "%d", &id)
	return id
}

func (b *fakeUserBackend) counts() (lists, creates, updates, deletes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists, b.creates, b.updates, b.deletes
}

func validUserForm() UserForm {
	return UserForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Handle:    "ada",
		Username:  "ada",
		Password:  "secret",
	}
}

func TestUserSection_RefreshReplacesList(t *testing.T) {
	backend := newFakeUserBackend(
		api.User{ID: 1, Email: "a@example.com", Handle: "a"},
		api.User{ID: 2, Email: "b@example.com", Handle: "b"},
	)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Refresh(context.Background())

	users := section.Users()
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.False(t, section.Loading())
	assert.Empty(t, section.Err())
}

func TestUserSection_RefreshAuthLossFiresCallbackOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var calls int
	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, func() { calls++ }, nil)
	section.Refresh(context.Background())

	assert.Equal(t, 1, calls)
	assert.Empty(t, section.Err(), "auth loss is not an inline error")
	assert.Empty(t, section.Users(), "existing list is left untouched")
}

func TestUserSection_RefreshErrorKeepsLastKnownGoodList(t *testing.T) {
	backend := newFakeUserBackend(api.User{ID: 1, Email: "a@example.com", Handle: "a"})
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"backend down"}`))
			return
		}
		backend.handler().ServeHTTP(w, r)
	}))
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Refresh(context.Background())
	require.Len(t, section.Users(), 1)

	fail.Store(true)
	section.Refresh(context.Background())

	assert.Equal(t, "backend down", section.Err())
	assert.Len(t, section.Users(), 1, "failed refresh keeps the previous snapshot")
}

func TestUserSection_SubmitCreateRefreshesFromServer(t *testing.T) {
	backend := newFakeUserBackend()
	var createAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			createAuth = r.Header.Get("Authorization")
		}
		backend.handler().ServeHTTP(w, r)
	}))
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.SetForm(validUserForm())
	section.Submit(context.Background())

	users := section.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "ada", users[0].Handle)
	assert.Empty(t, createAuth, "user creation goes through the open signup endpoint")

	_, creates, _, _ := backend.counts()
	assert.Equal(t, 1, creates)

	assert.Equal(t, UserForm{}, section.Form(), "form is cleared after a successful submit")
	_, editing := section.EditingID()
	assert.False(t, editing)
	assert.False(t, section.Submitting())
}

func TestUserSection_SubmitUpdateUsesEditTarget(t *testing.T) {
	backend := newFakeUserBackend(api.User{ID: 3, FirstName: "A", Email: "a@example.com", Handle: "a"})
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Refresh(context.Background())
	section.BeginEdit(section.Users()[0])

	form := section.Form()
	assert.Equal(t, "a@example.com", form.Email)
	assert.Empty(t, form.Username, "username is left blank on edit pre-fill")
	assert.Empty(t, form.Password, "password is left blank on edit pre-fill")

	form.FirstName = "Renamed"
	form.Username = "a"
	form.Password = "newpw"
	section.SetForm(form)
	section.Submit(context.Background())

	_, _, updates, _ := backend.counts()
	assert.Equal(t, 1, updates)

	users := section.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "Renamed", users[0].FirstName, "list reflects server truth after update")
	_, editing := section.EditingID()
	assert.False(t, editing)
}

func TestUserSection_SubmitValidationBlocksNetwork(t *testing.T) {
	backend := newFakeUserBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)

	form := validUserForm()
	form.Password = ""
	section.SetForm(form)
	section.Submit(context.Background())

	assert.Equal(t, "Password is required", section.Err())
	lists, creates, updates, deletes := backend.counts()
	assert.Zero(t, lists+creates+updates+deletes, "validation failures must not reach the network")
}

func TestUserSection_SubmitConflictKeepsFormInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"HANDLE_ALREADY_EXISTS","message":"Handle already exists"}`))
	}))
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	form := validUserForm()
	section.SetForm(form)
	section.Submit(context.Background())

	assert.Equal(t, "Handle already exists", section.Err())
	assert.Equal(t, form, section.Form(), "failed submit retains the user's unsaved input")
	assert.False(t, section.Submitting())
}

func TestUserSection_SubmitAuthLossFiresCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var calls int
	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, func() { calls++ }, nil)
	section.SetForm(validUserForm())
	section.Submit(context.Background())

	assert.Equal(t, 1, calls)
	assert.Empty(t, section.Err())
}

func TestUserSection_RemoveClearsEditPointerForDeletedRow(t *testing.T) {
	backend := newFakeUserBackend(
		api.User{ID: 1, Email: "a@example.com", Handle: "a"},
		api.User{ID: 2, Email: "b@example.com", Handle: "b"},
	)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Refresh(context.Background())
	section.BeginEdit(section.Users()[0])

	section.Remove(context.Background(), 1)

	users := section.Users()
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
	_, editing := section.EditingID()
	assert.False(t, editing, "removing the edited row clears the edit pointer")
}

func TestUserSection_RemoveKeepsUnrelatedEditPointer(t *testing.T) {
	backend := newFakeUserBackend(
		api.User{ID: 1, Email: "a@example.com", Handle: "a"},
		api.User{ID: 2, Email: "b@example.com", Handle: "b"},
	)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Refresh(context.Background())
	section.BeginEdit(section.Users()[0])

	section.Remove(context.Background(), 2)

	id, editing := section.EditingID()
	assert.True(t, editing)
	assert.Equal(t, int64(1), id)
}

func TestUserSection_SecondSubmitWhileInFlightIsDropped(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mu.Lock()
			posts++
			mu.Unlock()
			<-release
			_, _ = w.Write([]byte(`{"id":1}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.SetForm(validUserForm())

	done := make(chan struct{})
	go func() {
		defer close(done)
		section.Submit(context.Background())
	}()

	require.Eventually(t, section.Submitting, waitTimeout, pollInterval)
	section.Submit(context.Background())

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, posts, "in-flight guard must drop the second submit")
}

func TestUserSection_ClosedSectionDiscardsLateRefresh(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[{"id":1,"email":"a@example.com","handle":"a"}]`))
	}))
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		section.Refresh(context.Background())
	}()

	require.Eventually(t, section.Loading, waitTimeout, pollInterval)
	section.Close()
	close(release)
	<-done

	assert.Empty(t, section.Users(), "results landing after Close are discarded")
}

func TestUserSection_OperationsAfterCloseAreNoOps(t *testing.T) {
	backend := newFakeUserBackend(api.User{ID: 1, Email: "a@example.com", Handle: "a"})
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	section := NewUserSection(api.NewClient(srv.URL), usersTestToken, nil, nil)
	section.Close()

	section.Refresh(context.Background())
	section.SetForm(validUserForm())
	section.Submit(context.Background())

	lists, creates, _, _ := backend.counts()
	assert.Zero(t, lists)
	assert.Zero(t, creates)
}
