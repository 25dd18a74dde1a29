package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type password struct {
	Value string `validate:"hasupper,haslower,hasdigit,nospaces"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid", "Secret123", true},
		{"no upper", "secret123", false},
		{"no lower", "SECRET123", false},
		{"no digit", "SecretOne", false},
		{"spaces", "Secret 123", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(&password{Value: tc.value})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
