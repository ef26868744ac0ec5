package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/credentials"
	"github.com/aymane70/taskman/internal/model"
)

// fakeAuthAPI implements AuthAPI with pluggable outcomes
type fakeAuthAPI struct {
	loginFn    func(username, password string) (api.AuthPayload, error)
	registerFn func(username, email, password string) (api.AuthPayload, error)
}

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (api.AuthPayload, error) {
	return f.loginFn(username, password)
}

func (f *fakeAuthAPI) Register(ctx context.Context, username, email, password string) (api.AuthPayload, error) {
	return f.registerFn(username, email, password)
}

func testUser() model.User {
	return model.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}
}

func okLogin(username, password string) (api.AuthPayload, error) {
	return api.AuthPayload{Token: "tok-123", User: testUser()}, nil
}

func newTestGuard(t *testing.T, auth AuthAPI) (*Guard, *credentials.Store) {
	t.Helper()
	store := credentials.Open(filepath.Join(t.TempDir(), "credentials.json"))
	return NewGuard(store, auth), store
}

func TestGuardStartsUnknown(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{})

	assert.Equal(t, StatusUnknown, g.Current().Status)
	assert.Equal(t, DecisionPending, g.Decide())
}

func TestRestoreWithoutCredentials(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{})

	g.Restore()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
	assert.Equal(t, DecisionLogin, g.Decide())
}

func TestRestoreWithStoredCredentials(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{})
	require.NoError(t, store.Save(credentials.Credentials{Token: "tok-123", User: testUser()}))

	g.Restore()

	s := g.Current()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "tok-123", s.Token)
	assert.Equal(t, "alice", s.User.Username)
	assert.Equal(t, DecisionAllow, g.Decide())
}

func TestRestoreWithCorruptFileIsAnonymous(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	store := credentials.Open(path)
	g := NewGuard(store, &fakeAuthAPI{})

	writeFile(t, path, "{not json")
	g.Restore()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
}

func TestRestoreRunsOnce(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{})

	g.Restore()
	require.Equal(t, StatusAnonymous, g.Current().Status)

	// Credentials appearing later must not flip an already-resolved session.
	require.NoError(t, store.Save(credentials.Credentials{Token: "tok-456", User: testUser()}))
	g.Restore()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
}

func TestLoginSuccess(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{loginFn: okLogin})
	g.Restore()

	err := g.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)

	s := g.Current()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "tok-123", g.Token())

	// The session must survive a restart through the store.
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", creds.Token)
	assert.Equal(t, "alice", creds.User.Username)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{
		loginFn: func(username, password string) (api.AuthPayload, error) {
			return api.AuthPayload{}, errors.New("invalid credentials")
		},
	})
	g.Restore()

	err := g.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	assert.Equal(t, StatusAnonymous, g.Current().Status)
	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, credentials.ErrNotFound)
}

func TestRegisterSuccess(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{
		registerFn: func(username, email, password string) (api.AuthPayload, error) {
			return api.AuthPayload{Token: "tok-new", User: testUser()}, nil
		},
	})
	g.Restore()

	err := g.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, StatusAuthenticated, g.Current().Status)
	assert.Equal(t, "tok-new", g.Token())
}

func TestLogoutClearsEverything(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{loginFn: okLogin})
	g.Restore()
	require.NoError(t, g.Login(context.Background(), "alice", "hunter22"))

	g.Logout()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
	assert.Empty(t, g.Token())
	_, err := store.Load()
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestHandleUnauthorizedForcesLogout(t *testing.T) {
	g, store := newTestGuard(t, &fakeAuthAPI{loginFn: okLogin})
	g.Restore()
	require.NoError(t, g.Login(context.Background(), "alice", "hunter22"))

	g.HandleUnauthorized()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
	_, err := store.Load()
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestHandleUnauthorizedWhenAnonymousIsNoop(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{})
	g.Restore()
	drain(g)

	g.HandleUnauthorized()

	assert.Equal(t, StatusAnonymous, g.Current().Status)
	select {
	case s := <-g.Changes():
		t.Fatalf("unexpected session change: %+v", s)
	default:
	}
}

func TestChangesCarriesLatestSnapshot(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{loginFn: okLogin})

	g.Restore()
	require.NoError(t, g.Login(context.Background(), "alice", "hunter22"))

	// Restore's anonymous snapshot was superseded before anyone read it;
	// the channel must hold the latest state.
	s := <-g.Changes()
	assert.Equal(t, StatusAuthenticated, s.Status)
}

func TestTokenEmptyWhileUnknown(t *testing.T) {
	g, _ := newTestGuard(t, &fakeAuthAPI{})
	assert.Empty(t, g.Token())
}

func drain(g *Guard) {
	select {
	case <-g.Changes():
	default:
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}
