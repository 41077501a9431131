package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
)

type fakeAuth struct {
	session domain.Session
	err     error
	logins  int
	regs    []domain.Registration
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (domain.Session, error) {
	f.logins++
	return f.session, f.err
}

func (f *fakeAuth) Register(_ context.Context, reg domain.Registration) (domain.Session, error) {
	f.regs = append(f.regs, reg)
	return f.session, f.err
}

var errOffline = errors.New("connection refused")

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, "storefront")
}

func newTestManager(t *testing.T, s store.Store, auth Authenticator) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), s, auth, testIssuer(), nil)
	require.NoError(t, err)
	m.bcryptCost = bcrypt.MinCost
	return m
}

func registration() domain.Registration {
	return domain.Registration{
		FirstName:       "Priya",
		LastName:        "Nair",
		Username:        "priya",
		Email:           "priya@example.in",
		Phone:           "9123456789",
		Gender:          "female",
		DateOfBirth:     "1994-05-02",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestLogin_Backend(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	auth := &fakeAuth{session: domain.Session{User: domain.User{ID: "b1", Email: "a@b.in", Name: "Asha"}, Token: "backend-token"}}
	m := newTestManager(t, mem, auth)

	s, err := m.Login(ctx, "a@b.in", "pw")
	require.NoError(t, err)
	assert.Equal(t, "backend-token", s.Token)
	assert.Equal(t, domain.RoleBuyer, s.Role())

	// persisted for the next reader
	other := newTestManager(t, mem, nil)
	require.NotNil(t, other.Current())
	assert.Equal(t, "b1", other.Current().UserID())
	assert.Equal(t, "backend-token", other.Current().Token)
}

func TestLogin_BackendWithoutToken(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{User: domain.User{Email: "a@b.in"}}}
	m := newTestManager(t, store.NewMemoryStore(), auth)

	s, err := m.Login(context.Background(), "a@b.in", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, s.UserID())
	assert.Equal(t, "User", s.User.Name)

	claims, err := testIssuer().Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.UserID(), claims.UserID)
}

func TestRegister_LocalFallbackThenLogin(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{err: errOffline}
	m := newTestManager(t, store.NewMemoryStore(), auth)

	reg := registration()
	reg.Role = domain.RoleSeller
	s, err := m.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", s.User.Name)
	assert.Equal(t, domain.RoleSeller, s.Role())
	assert.False(t, s.IsSellerVerified())
	require.Len(t, auth.regs, 1)

	require.NoError(t, m.Logout(ctx))
	assert.Nil(t, m.Current())

	_, err = m.Login(ctx, "priya@example.in", "wrong-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	s2, err := m.Login(ctx, " PRIYA@example.in ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, s.UserID(), s2.UserID())
	assert.Equal(t, 2, auth.logins)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, store.NewMemoryStore(), &fakeAuth{err: errOffline})

	_, err := m.Register(ctx, registration())
	require.NoError(t, err)
	_, err = m.Register(ctx, registration())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_LocalPasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	m := newTestManager(t, mem, nil)

	_, err := m.Register(ctx, registration())
	require.NoError(t, err)

	raw, err := mem.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret1")
	assert.Contains(t, string(raw), "priya@example.in")
}

func TestRegister_Validation(t *testing.T) {
	m := newTestManager(t, store.NewMemoryStore(), &fakeAuth{})

	tests := []struct {
		name  string
		edit  func(*domain.Registration)
		field string
		msg   string
	}{
		{"phone", func(r *domain.Registration) { r.Phone = "5123456789" }, "phone", "Enter a valid Indian phone number"},
		{"short password", func(r *domain.Registration) { r.Password, r.ConfirmPassword = "abc", "abc" }, "password", "Password must be at least 6 characters"},
		{"mismatch", func(r *domain.Registration) { r.ConfirmPassword = "secret2" }, "confirmPassword", "Passwords do not match"},
		{"email", func(r *domain.Registration) { r.Email = "priya" }, "email", "Email is invalid"},
		{"first name", func(r *domain.Registration) { r.FirstName = " " }, "firstName", "First name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registration()
			tt.edit(&reg)
			_, err := m.Register(context.Background(), reg)
			var ferr *FormError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, FieldErrors{tt.field: tt.msg}, ferr.Fields)
		})
	}
	assert.Nil(t, m.Current())
}

func TestCompleteSellerProfile(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	m := newTestManager(t, mem, nil)

	_, err := m.CompleteSellerProfile(ctx, domain.SellerProfile{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	reg := registration()
	reg.Role = domain.RoleSeller
	_, err = m.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, Decision{Redirect: "/seller-registration"}, Navigate(m.Current(), "/seller-dashboard"))

	_, err = m.CompleteSellerProfile(ctx, domain.SellerProfile{BusinessName: "Crafts Co."})
	var ferr *FormError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "Tax ID/GST number is required", ferr.Fields["taxId"])
	assert.NotContains(t, ferr.Fields, "businessName")

	s, err := m.CompleteSellerProfile(ctx, domain.SellerProfile{
		BusinessName:      "Crafts Co.",
		BusinessType:      "sole-proprietorship",
		TaxID:             "29ABCDE1234F1Z5",
		EstablishmentDate: "2019-04-01",
		BusinessLicense:   "LIC-1",
		BusinessAddress:   domain.Address{Street: "1 Main", City: "Jaipur", State: "Rajasthan", ZipCode: "302001"},
	})
	require.NoError(t, err)
	assert.True(t, s.IsSellerVerified())
	assert.Equal(t, Decision{Allowed: true}, Navigate(m.Current(), "/seller-dashboard"))

	// the local account remembers the verification
	require.NoError(t, m.Logout(ctx))
	s, err = m.Login(ctx, reg.Email, reg.Password)
	require.NoError(t, err)
	assert.True(t, s.IsSellerVerified())
	require.NotNil(t, s.User.SellerProfile)
	assert.Equal(t, "Crafts Co.", s.User.SellerProfile.BusinessName)
}

func TestReload_ExpiredLocalToken(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	m := newTestManager(t, mem, nil)
	m.tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, err := m.Register(ctx, registration())
	require.NoError(t, err)

	m.tokens.now = time.Now
	require.NoError(t, m.Reload(ctx))
	assert.Nil(t, m.Current())
}

func TestReload_KeepsForeignToken(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	auth := &fakeAuth{session: domain.Session{User: domain.User{ID: "b1"}, Token: "opaque-backend-token"}}
	m := newTestManager(t, mem, auth)
	_, err := m.Login(ctx, "a@b.in", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Reload(ctx))
	require.NotNil(t, m.Current())
	assert.Equal(t, "opaque-backend-token", m.Current().Token)
}

func TestReload_ObservesOtherWriter(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	a := newTestManager(t, mem, &fakeAuth{session: domain.Session{User: domain.User{ID: "b1"}, Token: "tok"}})
	b := newTestManager(t, mem, nil)

	_, err := a.Login(ctx, "a@b.in", "pw")
	require.NoError(t, err)
	assert.Nil(t, b.Current())

	require.NoError(t, b.Reload(ctx))
	require.NotNil(t, b.Current())

	require.NoError(t, a.Logout(ctx))
	require.NoError(t, b.Reload(ctx))
	assert.Nil(t, b.Current())
}

func TestReload_MalformedUser(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, store.KeyUser, []byte("{not json")))

	m := newTestManager(t, mem, nil)
	assert.Nil(t, m.Current())
}

// laggyStore answers reads late, like a networked driver.
type laggyStore struct {
	*store.MemoryStore
	delay time.Duration
}

func (s laggyStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Get(ctx, key)
}

func TestRegister_ConcurrentLocalAccountsAreNotLost(t *testing.T) {
	ctx := context.Background()
	mem := laggyStore{MemoryStore: store.NewMemoryStore(), delay: time.Millisecond}
	m := newTestManager(t, mem, nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n+1)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg := registration()
			reg.Email = fmt.Sprintf("user%d@example.in", i)
			reg.Username = fmt.Sprintf("user%d", i)
			if _, err := m.Register(ctx, reg); err != nil {
				errs <- err
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range n {
			if err := m.Reload(ctx); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, m.Reload(ctx))
	require.NotNil(t, m.Current())
	for i := range n {
		_, err := m.Login(ctx, fmt.Sprintf("user%d@example.in", i), "secret1")
		assert.NoError(t, err, "user%d", i)
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, laggyStore{MemoryStore: store.NewMemoryStore(), delay: time.Millisecond}, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, taken := 0, 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Register(ctx, registration())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrEmailTaken):
				taken++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, taken)
}
