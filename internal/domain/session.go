package domain

// Role is the account type of a signed-in user.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole maps free-form input to a Role, defaulting to buyer.
func ParseRole(s string) Role {
	if Role(s) == RoleSeller {
		return RoleSeller
	}
	return RoleBuyer
}

// Address is a postal address used for shipping and seller businesses.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// SellerProfile is collected during seller onboarding.
type SellerProfile struct {
	BusinessName      string  `json:"businessName"`
	BusinessType      string  `json:"businessType"`
	TaxID             string  `json:"taxId"`
	EstablishmentDate string  `json:"establishmentDate"`
	BusinessLicense   string  `json:"businessLicense"`
	BusinessAddress   Address `json:"businessAddress"`
	AnnualTurnover    string  `json:"annualTurnover,omitempty"`
	Website           string  `json:"website,omitempty"`
	Description       string  `json:"description,omitempty"`
}

// User is the persisted identity of the signed-in account.
type User struct {
	ID               string         `json:"_id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Role             Role           `json:"role"`
	Phone            string         `json:"phone,omitempty"`
	Gender           string         `json:"gender,omitempty"`
	IsSellerVerified bool           `json:"isSellerVerified"`
	SellerProfile    *SellerProfile `json:"sellerProfile,omitempty"`
}

// Session is the authenticated identity governing which mutations and navigations are allowed.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (s *Session) UserID() string { return s.User.ID }

func (s *Session) Role() Role { return s.User.Role }

func (s *Session) IsSellerVerified() bool { return s.User.IsSellerVerified }

// Registration is the sign-up form of a new account.
type Registration struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"dateOfBirth"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            Role   `json:"role"`
}
