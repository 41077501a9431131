package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// FieldErrors maps a form field to its message. Empty means the gate passed.
type FieldErrors map[string]string

// ValidationError is returned when a step gate rejects the form.
type ValidationError struct {
	Step   Step
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s step failed validation: %s", e.Step, strings.Join(keys, ", "))
}

var (
	basicEmailRe = regexp.MustCompile(`\S+@\S+\.\S+`)
	zipRe        = regexp.MustCompile(`^\d{6}$`)
	cardRe       = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
	upiRe        = regexp.MustCompile(`^[\w.\-]{2,}@[A-Za-z]{2,}$`)
	mobileRe     = regexp.MustCompile(`^[6-9]\d{9}$`)
	nonDigitRe   = regexp.MustCompile(`\D`)
)

// messages holds the text shown for each field and failing tag.
var messages = map[string]map[string]string{
	"name":       {"required": "Full name is required"},
	"email":      {"required": "Email is required", "basic_email": "Email is invalid"},
	"phone":      {"required": "Phone number is required", "in_mobile": "Enter a valid Indian phone number"},
	"street":     {"required": "Street address is required"},
	"city":       {"required": "City is required"},
	"state":      {"required": "State is required"},
	"zipCode":    {"required": "ZIP code is required", "zip6": "ZIP code must be 6 digits"},
	"cardNumber": {"required": "Card number is required", "card16": "Enter a valid 16-digit card number"},
	"expiryDate": {"required": "Expiry date is required", "expiry": "Use MM/YY format"},
	"cvv":        {"required": "CVV is required", "cvv": "Enter a valid CVV"},
	"nameOnCard": {"required": "Name on card is required"},
	"upiId":      {"required": "UPI ID is required", "upi": "Enter a valid UPI ID like yourname@upi"},
}

type informationForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,basic_email"`
	Phone   string `json:"phone" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required,zip6"`
}

type mobileForm struct {
	Phone string `json:"phone" validate:"in_mobile"`
}

type cardForm struct {
	CardNumber string `json:"cardNumber" validate:"required,card16"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
	NameOnCard string `json:"nameOnCard" validate:"required"`
}

type upiForm struct {
	UPIID string `json:"upiId" validate:"required,upi"`
}

// ValidatorOptions switches on the optional gates.
type ValidatorOptions struct {
	// RequireUPIID adds a UPI ID gate for the upi method.
	RequireUPIID bool
	// RequireIndianPhone demands a 10 digit mobile number starting 6-9. Separators are ignored.
	RequireIndianPhone bool
}

// Validator runs the step gates.
type Validator struct {
	v    *validator.Validate
	opts ValidatorOptions
}

// NewValidator builds the gates.
func NewValidator(opts ValidatorOptions) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "basic_email", basicEmailRe.MatchString)
	mustRegister(v, "zip6", zipRe.MatchString)
	mustRegister(v, "card16", func(s string) bool { return cardRe.MatchString(strings.ReplaceAll(s, " ", "")) })
	mustRegister(v, "expiry", expiryRe.MatchString)
	mustRegister(v, "cvv", cvvRe.MatchString)
	mustRegister(v, "upi", upiRe.MatchString)
	mustRegister(v, "in_mobile", func(s string) bool { return mobileRe.MatchString(nonDigitRe.ReplaceAllString(s, "")) })
	return &Validator{v: v, opts: opts}
}

func mustRegister(v *validator.Validate, tag string, match func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return match(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Information checks the customer block.
func (val *Validator) Information(c domain.Customer) FieldErrors {
	phone := strings.TrimSpace(c.Phone)
	out := val.check(informationForm{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   phone,
		Street:  strings.TrimSpace(c.Address.Street),
		City:    strings.TrimSpace(c.Address.City),
		State:   strings.TrimSpace(c.Address.State),
		ZipCode: strings.TrimSpace(c.Address.ZipCode),
	})
	if _, missing := out["phone"]; val.opts.RequireIndianPhone && !missing {
		for k, msg := range val.check(mobileForm{Phone: phone}) {
			out[k] = msg
		}
	}
	return out
}

// Payment checks the details required by method. Only card has a gate unless the UPI ID
// gate is switched on.
func (val *Validator) Payment(method PaymentMethod, d PaymentDetails) FieldErrors {
	switch {
	case method == PaymentCard:
		return val.check(cardForm{
			CardNumber: strings.TrimSpace(d.CardNumber),
			ExpiryDate: strings.TrimSpace(d.ExpiryDate),
			CVV:        strings.TrimSpace(d.CVV),
			NameOnCard: strings.TrimSpace(d.NameOnCard),
		})
	case method == PaymentUPI && val.opts.RequireUPIID:
		return val.check(upiForm{UPIID: strings.TrimSpace(d.UPIID)})
	}
	return FieldErrors{}
}

func (val *Validator) check(form any) FieldErrors {
	out := FieldErrors{}
	err := val.v.Struct(form)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}
