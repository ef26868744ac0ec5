package session

import (
	"context"
	"sync"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/credentials"
	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/model"
)

// Status is the client's belief about authentication
type Status int

const (
	// StatusUnknown means restoration has not run yet. The access gate
	// must suspend its decision while in this state, never deny.
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is a consistent snapshot of the authentication state. Token and
// User are set iff Status is StatusAuthenticated.
type Session struct {
	Status Status
	Token  string
	User   model.User
}

// Decision is the three-way access-control outcome for protected views
type Decision int

const (
	// DecisionPending: restoration has not completed; render a neutral
	// pending indicator, neither the protected view nor a redirect.
	DecisionPending Decision = iota
	// DecisionLogin: anonymous; send the user to the login entry point.
	DecisionLogin
	// DecisionAllow: authenticated; render the protected view.
	DecisionAllow
)

// AuthAPI is the slice of the remote API the guard needs
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (api.AuthPayload, error)
	Register(ctx context.Context, username, email, password string) (api.AuthPayload, error)
}

// Guard owns the process-wide session state. Only the guard mutates it;
// everyone else reads snapshots through Current. Auth failures are
// returned as values, never panics, so callers can render a message.
type Guard struct {
	mu      sync.RWMutex
	store   *credentials.Store
	auth    AuthAPI
	session Session
	changes chan Session
}

// NewGuard creates a guard in the Unknown state
func NewGuard(store *credentials.Store, auth AuthAPI) *Guard {
	return &Guard{
		store:   store,
		auth:    auth,
		session: Session{Status: StatusUnknown},
		changes: make(chan Session, 1),
	}
}

// Restore resolves the initial session from the credential store. It
// transitions out of Unknown exactly once; later calls are no-ops. The
// stored token is not validated against the server here: an expired token
// surfaces as an authorization failure on the first authorized request.
func (g *Guard) Restore() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session.Status != StatusUnknown {
		return
	}

	creds, err := g.store.Load()
	if err != nil {
		g.session = Session{Status: StatusAnonymous}
		logger.Debug("No stored session, starting anonymous")
	} else {
		g.session = Session{Status: StatusAuthenticated, Token: creds.Token, User: creds.User}
		logger.Info("Session restored", logger.F("username", creds.User.Username))
	}
	g.publish()
}

// Login authenticates against the remote API. On failure the session is
// left untouched and the reason is returned for display.
func (g *Guard) Login(ctx context.Context, username, password string) error {
	payload, err := g.auth.Login(ctx, username, password)
	if err != nil {
		logger.Warn("Login failed", logger.F("username", username), logger.F("error", err))
		return err
	}
	g.accept(payload)
	logger.Info("Logged in", logger.F("username", payload.User.Username))
	return nil
}

// Register creates an account and logs it in; same contract as Login
func (g *Guard) Register(ctx context.Context, username, email, password string) error {
	payload, err := g.auth.Register(ctx, username, email, password)
	if err != nil {
		logger.Warn("Registration failed", logger.F("username", username), logger.F("error", err))
		return err
	}
	g.accept(payload)
	logger.Info("Registered", logger.F("username", payload.User.Username))
	return nil
}

// accept persists the payload and moves to Authenticated
func (g *Guard) accept(payload api.AuthPayload) {
	creds := credentials.Credentials{Token: payload.Token, User: payload.User}
	if err := g.store.Save(creds); err != nil {
		// The session still works for this process; it just won't
		// survive a restart.
		logger.Warn("Failed to persist credentials", logger.F("error", err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = Session{Status: StatusAuthenticated, Token: payload.Token, User: payload.User}
	g.publish()
}

// Logout clears the credential store and moves to Anonymous. It never
// fails from the caller's perspective.
func (g *Guard) Logout() {
	if err := g.store.Clear(); err != nil {
		logger.Warn("Failed to clear credentials", logger.F("error", err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = Session{Status: StatusAnonymous}
	g.publish()
	logger.Info("Logged out")
}

// HandleUnauthorized is wired into the API client: any authorized request
// rejected with an invalid or expired credential forces a logout, which is
// how dead tokens are detected since Restore does not pre-validate.
func (g *Guard) HandleUnauthorized() {
	g.mu.RLock()
	authenticated := g.session.Status == StatusAuthenticated
	g.mu.RUnlock()
	if !authenticated {
		return
	}
	logger.Warn("Server rejected session token, forcing logout")
	g.Logout()
}

// Current returns a snapshot of the session
func (g *Guard) Current() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Token returns the current bearer token, empty when not authenticated.
// This is the token source handed to the API client.
func (g *Guard) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session.Token
}

// Decide is the access-control gate for protected views
func (g *Guard) Decide() Decision {
	switch g.Current().Status {
	case StatusAuthenticated:
		return DecisionAllow
	case StatusAnonymous:
		return DecisionLogin
	default:
		return DecisionPending
	}
}

// Changes signals session transitions to the view layer. The channel
// carries the latest snapshot; intermediate states may be coalesced.
func (g *Guard) Changes() <-chan Session {
	return g.changes
}

// publish pushes the current snapshot, dropping a stale pending one; holds g.mu
func (g *Guard) publish() {
	select {
	case <-g.changes:
	default:
	}
	g.changes <- g.session
}
