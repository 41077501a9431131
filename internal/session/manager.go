package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// Authenticator is the remote account service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
}

// localAccount is a registration kept in the demo registry when the backend is unreachable.
type localAccount struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"passwordHash"`
}

// Manager owns the session of one browsing profile.
type Manager struct {
	mu      sync.RWMutex
	current *domain.Session
	// writeMu orders slot writes and Reload so an older read never replaces a newer session.
	writeMu sync.Mutex
	// accountsMu guards the load-modify-save of the local registry.
	accountsMu sync.Mutex

	user     *store.Slot[domain.User]
	token    *store.Slot[string]
	accounts *store.Collection[localAccount]

	auth       Authenticator
	tokens     *TokenIssuer
	forms      *formValidator
	bcryptCost int
	log        *zap.Logger
}

func NewManager(ctx context.Context, s store.Store, auth Authenticator, tokens *TokenIssuer, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		user:       store.NewSlot[domain.User](s, store.KeyUser, log),
		token:      store.NewSlot[string](s, store.KeyToken, log),
		accounts:   store.NewCollection[localAccount](s, store.KeyUsers, log),
		auth:       auth,
		tokens:     tokens,
		forms:      newFormValidator(),
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Current returns a copy of the session, or nil when signed out.
func (m *Manager) Current() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Reload re-reads the persisted session. A locally issued token that has expired ends the
// session.
func (m *Manager) Reload(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	u, ok, err := m.user.Load(ctx)
	if err != nil {
		return err
	}
	token, _, err := m.token.Load(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok || u.ID == "" {
		m.current = nil
		return nil
	}
	if token != "" && m.tokens != nil {
		if _, err := m.tokens.Parse(token); errors.Is(err, ErrExpiredToken) {
			m.log.Info("local session token expired", zap.String("user_id", u.ID))
			m.current = nil
			return nil
		}
	}
	m.current = &domain.Session{User: u, Token: token}
	return nil
}

// Login tries the backend first and falls back to the local registry on any failure.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)

	if m.auth != nil {
		remote, err := m.auth.Login(ctx, email, password)
		if err == nil {
			return m.persist(ctx, normalizeUser(remote.User, nil), remote.Token)
		}
		m.log.Warn("backend login failed, trying local accounts", zap.Error(err))
	}

	accounts, err := m.accounts.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if !strings.EqualFold(a.User.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			break
		}
		return m.persist(ctx, a.User, "")
	}
	return nil, ErrInvalidCredentials
}

// Register validates the form, then tries the backend and falls back to the local registry.
// A successful registration signs the user in.
func (m *Manager) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	if err := m.forms.Registration(reg); err != nil {
		return nil, err
	}
	reg.Email = strings.TrimSpace(reg.Email)
	fresh := newUser(reg)

	if m.auth != nil {
		remote, err := m.auth.Register(ctx, reg)
		if err == nil {
			u := fresh
			if remote.User.ID != "" || remote.User.Email != "" {
				u = normalizeUser(remote.User, &reg)
			}
			return m.persist(ctx, u, remote.Token)
		}
		m.log.Warn("backend registration failed, storing account locally", zap.Error(err))
	}

	m.accountsMu.Lock()
	accounts, err := m.accounts.Load(ctx)
	if err != nil {
		m.accountsMu.Unlock()
		return nil, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.User.Email, fresh.Email) {
			m.accountsMu.Unlock()
			return nil, ErrEmailTaken
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), m.bcryptCost)
	if err != nil {
		m.accountsMu.Unlock()
		return nil, fmt.Errorf("hash password: %w", err)
	}
	accounts = append(accounts, localAccount{User: fresh, PasswordHash: string(hash)})
	err = m.accounts.Save(ctx, accounts)
	m.accountsMu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.persist(ctx, fresh, "")
}

// CompleteSellerProfile records the onboarding form and marks the seller verified.
func (m *Manager) CompleteSellerProfile(ctx context.Context, profile domain.SellerProfile) (*domain.Session, error) {
	if err := m.forms.SellerProfile(profile); err != nil {
		if m.Current() == nil {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	cur := m.Current()
	if cur == nil {
		return nil, domain.ErrUnauthenticated
	}

	u := cur.User
	u.IsSellerVerified = true
	u.SellerProfile = &profile
	if err := m.user.Save(ctx, u); err != nil {
		return nil, err
	}
	if err := m.updateLocalAccount(ctx, u); err != nil {
		m.log.Warn("failed to update local account", zap.String("user_id", u.ID), zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &domain.Session{User: u, Token: cur.Token}
	s := *m.current
	return &s, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.user.Clear(ctx); err != nil {
		return err
	}
	if err := m.token.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

// persist writes user and token, issuing a local token when none was supplied.
func (m *Manager) persist(ctx context.Context, u domain.User, token string) (*domain.Session, error) {
	if token == "" && m.tokens != nil {
		issued, err := m.tokens.Issue(u)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		token = issued
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.user.Save(ctx, u); err != nil {
		return nil, err
	}
	if err := m.token.Save(ctx, token); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &domain.Session{User: u, Token: token}
	s := *m.current
	m.log.Info("signed in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &s, nil
}

func (m *Manager) updateLocalAccount(ctx context.Context, u domain.User) error {
	m.accountsMu.Lock()
	defer m.accountsMu.Unlock()
	accounts, err := m.accounts.Load(ctx)
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].User.ID == u.ID {
			accounts[i].User = u
			return m.accounts.Save(ctx, accounts)
		}
	}
	return nil
}

func newUser(reg domain.Registration) domain.User {
	return normalizeUser(domain.User{Email: reg.Email, Phone: reg.Phone, Gender: reg.Gender, Role: reg.Role}, &reg)
}

// normalizeUser fills the display name, id and role. New sellers start unverified.
func normalizeUser(u domain.User, reg *domain.Registration) domain.User {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" && reg != nil {
		u.Name = strings.TrimSpace(strings.Join(nonEmpty(reg.FirstName, reg.LastName), " "))
		if u.Name == "" {
			u.Name = strings.TrimSpace(reg.Username)
		}
	}
	if u.Name == "" {
		u.Name = "User"
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Email == "" && reg != nil {
		u.Email = reg.Email
	}
	u.Role = domain.ParseRole(string(u.Role))
	if reg != nil && u.Role == domain.RoleSeller && u.SellerProfile == nil {
		u.IsSellerVerified = false
	}
	return u
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
