package checkout

import (
	"regexp"
	"strings"
)

// ShippingInfo is the validated draft written into the flow when the
// shipping step succeeds.
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type Field string

const (
	FieldFullName   Field = "fullName"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldAddress    Field = "address"
	FieldCity       Field = "city"
	FieldPostalCode Field = "postalCode"
)

var shippingFields = []Field{
	FieldFullName, FieldEmail, FieldPhone, FieldAddress, FieldCity, FieldPostalCode,
}

var (
	nameRe   = regexp.MustCompile(`^[\p{L}][\p{L} \-]+$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalRe = regexp.MustCompile(`^[0-9]{3,10}$`)
	digitsRe = regexp.MustCompile(`[^0-9]`)
)

func validateField(f Field, value string) string {
	v := strings.TrimSpace(value)
	switch f {
	case FieldFullName:
		if v == "" {
			return "Full name is required"
		}
		if len([]rune(v)) < 2 || !nameRe.MatchString(v) {
			return "Enter a valid name (letters only, at least 2 characters)"
		}
	case FieldEmail:
		if v == "" {
			return "Email is required"
		}
		if !emailRe.MatchString(v) {
			return "Enter a valid email address"
		}
	case FieldPhone:
		if v == "" {
			return "Phone number is required"
		}
		digits := digitsRe.ReplaceAllString(v, "")
		if len(digits) < 7 || len(digits) > 15 {
			return "Enter a valid phone number (7-15 digits)"
		}
	case FieldAddress:
		if v == "" {
			return "Address is required"
		}
		if len([]rune(v)) < 5 {
			return "Address must be at least 5 characters"
		}
	case FieldCity:
		if v == "" {
			return "City is required"
		}
		if len([]rune(v)) < 2 {
			return "City must be at least 2 characters"
		}
	case FieldPostalCode:
		if v == "" {
			return "Postal code is required"
		}
		if !postalRe.MatchString(v) {
			return "Postal code must be 3-10 digits"
		}
	}
	return ""
}

// ShippingForm is the controlled shipping-address form. Validation runs on
// blur (which marks the field touched) and on every change to an
// already-touched field; Validate touches and checks everything.
type ShippingForm struct {
	values  map[Field]string
	touched map[Field]bool
	errors  map[Field]string
}

func NewShippingForm() *ShippingForm {
	return &ShippingForm{
		values:  make(map[Field]string),
		touched: make(map[Field]bool),
		errors:  make(map[Field]string),
	}
}

func (f *ShippingForm) Set(field Field, value string) {
	f.values[field] = value
	if f.touched[field] {
		f.check(field)
	}
}

func (f *ShippingForm) Blur(field Field) {
	f.touched[field] = true
	f.check(field)
}

func (f *ShippingForm) check(field Field) {
	if msg := validateField(field, f.values[field]); msg != "" {
		f.errors[field] = msg
	} else {
		delete(f.errors, field)
	}
}

func (f *ShippingForm) Error(field Field) string {
	return f.errors[field]
}

func (f *ShippingForm) Errors() map[Field]string {
	out := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Validate re-checks every field and reports whether the form can submit.
func (f *ShippingForm) Validate() bool {
	for _, field := range shippingFields {
		f.touched[field] = true
		f.check(field)
	}
	return len(f.errors) == 0
}

// Info returns the trimmed draft. Only meaningful after Validate succeeded.
func (f *ShippingForm) Info() ShippingInfo {
	return ShippingInfo{
		FullName:   strings.TrimSpace(f.values[FieldFullName]),
		Email:      strings.TrimSpace(f.values[FieldEmail]),
		Phone:      strings.TrimSpace(f.values[FieldPhone]),
		Address:    strings.TrimSpace(f.values[FieldAddress]),
		City:       strings.TrimSpace(f.values[FieldCity]),
		PostalCode: strings.TrimSpace(f.values[FieldPostalCode]),
	}
}

var codeRe = regexp.MustCompile(`^[0-9]{4,8}$`)

// ValidVerificationCode reports whether a manual-payment verification code
// has an acceptable shape.
func ValidVerificationCode(code string) bool {
	return codeRe.MatchString(strings.TrimSpace(code))
}
