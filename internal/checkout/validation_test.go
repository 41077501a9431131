package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

func validCustomer() domain.Customer {
	return domain.Customer{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Phone: "9876543210",
		Address: domain.Address{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			ZipCode: "560001",
			Country: "India",
		},
	}
}

func validCard() PaymentDetails {
	return PaymentDetails{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CVV:        "123",
		NameOnCard: "Asha Rao",
	}
}

func TestInformation(t *testing.T) {
	v := NewValidator(ValidatorOptions{})

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, v.Information(validCustomer()))
	})

	t.Run("zip must be six digits", func(t *testing.T) {
		c := validCustomer()
		c.Address.ZipCode = "12345"
		errs := v.Information(c)
		assert.Equal(t, FieldErrors{"zipCode": "ZIP code must be 6 digits"}, errs)

		c.Address.ZipCode = "123456"
		assert.Empty(t, v.Information(c))
	})

	t.Run("whitespace is missing", func(t *testing.T) {
		c := validCustomer()
		c.Name = "   "
		c.Address.City = ""
		errs := v.Information(c)
		assert.Equal(t, "Full name is required", errs["name"])
		assert.Equal(t, "City is required", errs["city"])
		assert.Len(t, errs, 2)
	})

	t.Run("email shape", func(t *testing.T) {
		c := validCustomer()
		c.Email = "asha@example"
		assert.Equal(t, FieldErrors{"email": "Email is invalid"}, v.Information(c))
	})

	t.Run("everything missing", func(t *testing.T) {
		errs := v.Information(domain.Customer{})
		for _, f := range []string{"name", "email", "phone", "street", "city", "state", "zipCode"} {
			assert.Contains(t, errs, f)
		}
	})
}

func TestInformation_IndianPhone(t *testing.T) {
	lax := NewValidator(ValidatorOptions{})
	strict := NewValidator(ValidatorOptions{RequireIndianPhone: true})

	tests := []struct {
		phone string
		ok    bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", false},
		{"98765-43210", true},
		{"(987) 654-3210", true},
		{"5876543210", false},
		{"987654321", false},
		{"555-0100", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			c := validCustomer()
			c.Phone = tt.phone
			assert.Empty(t, lax.Information(c))
			if tt.ok {
				assert.Empty(t, strict.Information(c))
			} else {
				assert.Equal(t, FieldErrors{"phone": "Enter a valid Indian phone number"}, strict.Information(c))
			}
		})
	}

	c := validCustomer()
	c.Phone = "  "
	assert.Equal(t, "Phone number is required", strict.Information(c)["phone"])
}

func TestPayment_Card(t *testing.T) {
	v := NewValidator(ValidatorOptions{})
	assert.Empty(t, v.Payment(PaymentCard, validCard()))

	tests := []struct {
		name  string
		edit  func(*PaymentDetails)
		field string
		msg   string
	}{
		{"short card", func(d *PaymentDetails) { d.CardNumber = "4111 1111" }, "cardNumber", "Enter a valid 16-digit card number"},
		{"letters in card", func(d *PaymentDetails) { d.CardNumber = "4111x11111111111" }, "cardNumber", "Enter a valid 16-digit card number"},
		{"expiry shape", func(d *PaymentDetails) { d.ExpiryDate = "1227" }, "expiryDate", "Use MM/YY format"},
		{"expiry month", func(d *PaymentDetails) { d.ExpiryDate = "13/27" }, "expiryDate", "Use MM/YY format"},
		{"cvv too long", func(d *PaymentDetails) { d.CVV = "12345" }, "cvv", "Enter a valid CVV"},
		{"missing name", func(d *PaymentDetails) { d.NameOnCard = "" }, "nameOnCard", "Name on card is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validCard()
			tt.edit(&d)
			assert.Equal(t, FieldErrors{tt.field: tt.msg}, v.Payment(PaymentCard, d))
		})
	}

	d := validCard()
	d.CVV = "1234"
	assert.Empty(t, v.Payment(PaymentCard, d))
}

func TestPayment_NonCard(t *testing.T) {
	assert.Empty(t, NewValidator(ValidatorOptions{}).Payment(PaymentUPI, PaymentDetails{}))
	assert.Empty(t, NewValidator(ValidatorOptions{}).Payment(PaymentCOD, PaymentDetails{}))

	strict := NewValidator(ValidatorOptions{RequireUPIID: true})
	assert.Equal(t, FieldErrors{"upiId": "UPI ID is required"}, strict.Payment(PaymentUPI, PaymentDetails{}))
	assert.Equal(t, FieldErrors{"upiId": "Enter a valid UPI ID like yourname@upi"}, strict.Payment(PaymentUPI, PaymentDetails{UPIID: "asha"}))
	assert.Empty(t, strict.Payment(PaymentUPI, PaymentDetails{UPIID: "asha.rao@okaxis"}))
	assert.Empty(t, strict.Payment(PaymentCOD, PaymentDetails{}))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Step: StepPayment, Fields: FieldErrors{"cvv": "x", "cardNumber": "y"}}
	assert.Equal(t, "payment step failed validation: cardNumber, cvv", err.Error())
}
