package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidators(t *testing.T) {
	cases := []struct {
		email  string
		loose  bool
		strict bool
	}{
		{"a@b.co", true, true},
		{"first.last@sub.domain.com", true, true},
		{"user_name-1@my-host.org", true, true},
		{"a@b", false, false},
		{"a.com", false, false},
		{"a@@b.com", false, false},
		{"", false, false},
		{"@b.com", false, false},
		{"a@.com", false, false},
		{"a@b.verylongtld", true, false},
		{"has space@b.co", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.loose, ValidEmail(tc.email), "loose")
			assert.Equal(t, tc.strict, ValidEmailStrict(tc.email), "strict")
		})
	}
}
