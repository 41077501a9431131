package session

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

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

// FormError is returned when a registration or profile form is rejected.
type FormError struct {
	Form   string
	Fields FieldErrors
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s form is invalid: %s", e.Form, strings.Join(keys, ", "))
}

var (
	emailRe       = regexp.MustCompile(`\S+@\S+\.\S+`)
	indianPhoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

var formMessages = map[string]map[string]string{
	"firstName":         {"required": "First name is required"},
	"lastName":          {"required": "Last name is required"},
	"username":          {"required": "Username is required"},
	"email":             {"required": "Email is required", "basic_email": "Email is invalid"},
	"phone":             {"required": "Phone number is required", "indian_phone": "Enter a valid Indian phone number"},
	"gender":            {"required": "Gender is required"},
	"dateOfBirth":       {"required": "Date of birth is required"},
	"password":          {"required": "Password is required", "min": "Password must be at least 6 characters"},
	"confirmPassword":   {"eqfield": "Passwords do not match"},
	"businessName":      {"required": "Business name is required"},
	"businessType":      {"required": "Business type is required"},
	"taxId":             {"required": "Tax ID/GST number is required"},
	"establishmentDate": {"required": "Establishment date is required"},
	"street":            {"required": "Street address is required"},
	"city":              {"required": "City is required"},
	"state":             {"required": "State is required"},
	"zipCode":           {"required": "ZIP code is required"},
	"businessLicense":   {"required": "Business license document is required"},
}

type registrationForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,basic_email"`
	Phone           string `json:"phone" validate:"required,indian_phone"`
	Gender          string `json:"gender" validate:"required"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type sellerForm struct {
	BusinessName      string `json:"businessName" validate:"required"`
	BusinessType      string `json:"businessType" validate:"required"`
	TaxID             string `json:"taxId" validate:"required"`
	EstablishmentDate string `json:"establishmentDate" validate:"required"`
	Street            string `json:"street" validate:"required"`
	City              string `json:"city" validate:"required"`
	State             string `json:"state" validate:"required"`
	ZipCode           string `json:"zipCode" validate:"required"`
	BusinessLicense   string `json:"businessLicense" validate:"required"`
}

type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	for tag, re := range map[string]*regexp.Regexp{"basic_email": emailRe, "indian_phone": indianPhoneRe} {
		match := re.MatchString
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return match(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return &formValidator{v: v}
}

// Registration validates a sign-up form. Passwords are compared untrimmed.
func (f *formValidator) Registration(r domain.Registration) error {
	return f.check("registration", registrationForm{
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Username:        strings.TrimSpace(r.Username),
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		Gender:          strings.TrimSpace(r.Gender),
		DateOfBirth:     strings.TrimSpace(r.DateOfBirth),
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	})
}

func (f *formValidator) SellerProfile(p domain.SellerProfile) error {
	return f.check("seller profile", sellerForm{
		BusinessName:      strings.TrimSpace(p.BusinessName),
		BusinessType:      strings.TrimSpace(p.BusinessType),
		TaxID:             strings.TrimSpace(p.TaxID),
		EstablishmentDate: strings.TrimSpace(p.EstablishmentDate),
		Street:            strings.TrimSpace(p.BusinessAddress.Street),
		City:              strings.TrimSpace(p.BusinessAddress.City),
		State:             strings.TrimSpace(p.BusinessAddress.State),
		ZipCode:           strings.TrimSpace(p.BusinessAddress.ZipCode),
		BusinessLicense:   strings.TrimSpace(p.BusinessLicense),
	})
}

func (f *formValidator) check(form string, v any) error {
	err := f.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := formMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		fields[fe.Field()] = msg
	}
	return &FormError{Form: form, Fields: fields}
}
