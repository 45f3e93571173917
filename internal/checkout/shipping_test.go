package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[Field]string {
	return map[Field]string{
		FieldFullName:   "Jane Doe",
		FieldEmail:      "a@b.com",
		FieldPhone:      "0123456789",
		FieldAddress:    "12 Nile St",
		FieldCity:       "Cairo",
		FieldPostalCode: "12345",
	}
}

func fillForm(values map[Field]string) *ShippingForm {
	f := NewShippingForm()
	for field, v := range values {
		f.Set(field, v)
	}
	return f
}

func TestShippingFormValid(t *testing.T) {
	t.Parallel()

	f := fillForm(validValues())
	require.True(t, f.Validate())
	assert.Empty(t, f.Errors())

	info := f.Info()
	assert.Equal(t, "Jane Doe", info.FullName)
	assert.Equal(t, "Cairo", info.City)
}

func TestShippingFormFieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		value string
	}{
		{name: "name too short", field: FieldFullName, value: "A"},
		{name: "name with digits", field: FieldFullName, value: "Jane 99"},
		{name: "empty name", field: FieldFullName, value: ""},
		{name: "bad email", field: FieldEmail, value: "not-an-email"},
		{name: "phone too short", field: FieldPhone, value: "12345"},
		{name: "phone too long", field: FieldPhone, value: "0123456789012345"},
		{name: "short address", field: FieldAddress, value: "abc"},
		{name: "short city", field: FieldCity, value: "C"},
		{name: "postal letters", field: FieldPostalCode, value: "12a45"},
		{name: "postal too short", field: FieldPostalCode, value: "12"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values := validValues()
			values[tt.field] = tt.value
			f := fillForm(values)
			assert.False(t, f.Validate())
			assert.NotEmpty(t, f.Error(tt.field))
		})
	}
}

func TestShippingFormUnicodeName(t *testing.T) {
	t.Parallel()

	values := validValues()
	values[FieldFullName] = "Renée Müller"
	f := fillForm(values)
	assert.True(t, f.Validate())
}

func TestShippingFormPhoneStripsFormatting(t *testing.T) {
	t.Parallel()

	values := validValues()
	values[FieldPhone] = "+20 (10) 123-4567"
	f := fillForm(values)
	assert.True(t, f.Validate())
}

func TestShippingFormTouchedSemantics(t *testing.T) {
	t.Parallel()

	f := NewShippingForm()

	// changes before blur do not surface errors
	f.Set(FieldEmail, "nope")
	assert.Empty(t, f.Error(FieldEmail))

	// blur marks touched and validates
	f.Blur(FieldEmail)
	assert.NotEmpty(t, f.Error(FieldEmail))

	// once touched, every change re-validates
	f.Set(FieldEmail, "a@b.com")
	assert.Empty(t, f.Error(FieldEmail))
	f.Set(FieldEmail, "broken")
	assert.NotEmpty(t, f.Error(FieldEmail))
}

func TestValidVerificationCode(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidVerificationCode("1234"))
	assert.True(t, ValidVerificationCode("12345678"))
	assert.False(t, ValidVerificationCode("123"))
	assert.False(t, ValidVerificationCode("123456789"))
	assert.False(t, ValidVerificationCode("12ab"))
	assert.False(t, ValidVerificationCode(""))
}
