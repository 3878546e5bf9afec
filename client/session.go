package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoginRequired is returned by Guard when no session is active.
var ErrLoginRequired = errors.New("login required")

// State is the session lifecycle position. The only legal flow is
// uninitialized → restoring → {anonymous | partial | hydrated} → cleared.
type State int

const (
	// StateUninitialized means Restore has not run yet.
	StateUninitialized State = iota
	// StateRestoring means the persisted identity is being read.
	StateRestoring
	// StateAnonymous means no identity is cached; the user must log in.
	StateAnonymous
	// StatePartial means the minimal identity is active but the full member
	// record has not arrived (or never will; hydration failures stick here).
	StatePartial
	// StateHydrated means the full member record is cached.
	StateHydrated
	// StateCleared means the session was logged out.
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StatePartial:
		return "partial"
	case StateHydrated:
		return "hydrated"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Identity is the minimal persisted session record: enough to resume and to
// authenticate, nothing more.
type Identity struct {
	MemberID     string `json:"member_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// CredentialStore persists the minimal identity between runs.
type CredentialStore interface {
	Load() (*Identity, error)
	Store(*Identity) error
	Clear() error
}

const hydrationTimeout = 10 * time.Second

// Session is the client-held record of which member is authenticated. It is
// the application's single session object; Restore, Establish, and Clear are
// the only mutation points.
//
// Establish hydrates asynchronously: the minimal identity is readable before
// the enriched member record arrives, and consumers must tolerate Member()
// returning nil while State() is StatePartial. A failed hydration is never
// rolled back; the session stays logged in on the minimal identity.
type Session struct {
	api   *Client
	store CredentialStore

	mu       sync.RWMutex
	state    State
	identity *Identity
	member   *Member
	done     chan struct{}
}

// NewSession creates an uninitialized session bound to an API client and a
// credential store.
func NewSession(api *Client, store CredentialStore) *Session {
	closed := make(chan struct{})
	close(closed)
	return &Session{
		api:   api,
		store: store,
		state: StateUninitialized,
		done:  closed,
	}
}

// Restore reads any previously persisted identity and sets it active
// speculatively. No server-side verification happens here; an expired token
// simply fails on first authenticated call.
func (s *Session) Restore() error {
	s.mu.Lock()
	s.state = StateRestoring
	s.mu.Unlock()

	identity, err := s.store.Load()
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if identity == nil {
		s.state = StateAnonymous
		return nil
	}

	s.identity = identity
	s.state = StatePartial
	s.api.SetToken(identity.AccessToken)
	return nil
}

// Establish persists the identity, sets it active, and kicks off the
// asynchronous hydration fetch. Done() reports when that fetch settled.
func (s *Session) Establish(identity Identity) error {
	if err := s.store.Store(&identity); err != nil {
		return err
	}

	done := make(chan struct{})

	s.mu.Lock()
	s.identity = &identity
	s.member = nil
	s.state = StatePartial
	s.done = done
	s.mu.Unlock()

	s.api.SetToken(identity.AccessToken)

	go s.hydrate(identity.MemberID, done)
	return nil
}

// hydrate enriches the session with the full member record. On failure the
// minimal identity stays active.
func (s *Session) hydrate(memberID string, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), hydrationTimeout)
	defer cancel()

	member, err := s.api.GetMember(ctx, memberID)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have been cleared or re-established while the fetch
	// was in flight; only apply the result to the identity that asked.
	if s.identity == nil || s.identity.MemberID != memberID {
		return
	}
	s.member = member
	s.state = StateHydrated
}

// Clear erases the persisted identity and the active session.
func (s *Session) Clear() error {
	err := s.store.Clear()

	s.mu.Lock()
	s.identity = nil
	s.member = nil
	s.state = StateCleared
	s.mu.Unlock()

	s.api.SetToken("")
	return err
}

// Guard runs fn only when a session is active; otherwise it returns
// ErrLoginRequired so the caller can redirect to login.
func (s *Session) Guard(fn func() error) error {
	if !s.Active() {
		return ErrLoginRequired
	}
	return fn()
}

// Active reports whether an identity is set, hydrated or not.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && (s.state == StatePartial || s.state == StateHydrated)
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the active minimal identity, or nil.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Member returns the hydrated member record, or nil while partial.
func (s *Session) Member() *Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member
}

// Done reports completion of the most recent hydration attempt. It is
// already closed for sessions that never established.
func (s *Session) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}
