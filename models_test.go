package procure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	procure "github.com/hotelgrid/procure"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice@Hotel.COM", "alice@hotel.com"},
		{"  spaced@hotel.com  ", "spaced@hotel.com"},
		{"already@hotel.com", "already@hotel.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, procure.NormalizeEmail(tt.in))
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"us number to e164", "(202) 555-0123", "+12025550123"},
		{"already e164", "+12025550123", "+12025550123"},
		{"unparseable left alone", "not a number", "not a number"},
		{"empty left alone", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, procure.NormalizePhone(tt.in))
		})
	}
}

func TestUserFullName(t *testing.T) {
	user := &procure.User{FirstName: "Alice", LastName: "Reyes"}
	assert.Equal(t, "Alice Reyes", user.FullName())

	user = &procure.User{FirstName: "Cher"}
	assert.Equal(t, "Cher", user.FullName())

	user = &procure.User{}
	assert.Equal(t, "", user.FullName())
}
