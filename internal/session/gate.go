package session

import (
	"strings"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

const (
	PathHome               = "/"
	PathLogin              = "/login"
	PathSellerRegistration = "/seller-registration"
)

// Requirement is what a destination demands of the session.
type Requirement struct {
	// Role is empty when any signed-in role may pass.
	Role           domain.Role
	SellerVerified bool
}

// Decision is the outcome of a navigation check. When Allowed is false the caller must
// send the user to Redirect; From carries the original destination for the login page.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	From     string `json:"from,omitempty"`
}

// Protected lists the destinations that need a session.
var Protected = map[string]Requirement{
	"/checkout":         {},
	"/order-success":    {},
	"/buyer-dashboard":  {Role: domain.RoleBuyer},
	"/seller-dashboard": {Role: domain.RoleSeller, SellerVerified: true},
}

// Public destinations never redirect.
var Public = map[string]struct{}{
	"/":                    {},
	"/login":               {},
	"/register":            {},
	"/seller-registration": {},
	"/products":            {},
	"/privacy-policy":      {},
	"/terms-of-service":    {},
	"/shipping-policy":     {},
}

// Check applies req to s for a navigation to destination.
func Check(s *domain.Session, destination string, req Requirement) Decision {
	if s == nil {
		return Decision{Redirect: PathLogin, From: destination}
	}
	if req.Role != "" && s.Role() != req.Role {
		return Decision{Redirect: PathHome}
	}
	if req.SellerVerified && s.Role() == domain.RoleSeller && !s.IsSellerVerified() {
		return Decision{Redirect: PathSellerRegistration}
	}
	return Decision{Allowed: true}
}

// Navigate resolves destination against the route table. Unknown destinations go home.
func Navigate(s *domain.Session, destination string) Decision {
	path := normalizePath(destination)
	if req, ok := Protected[path]; ok {
		return Check(s, path, req)
	}
	if _, ok := Public[path]; ok {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: PathHome}
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
