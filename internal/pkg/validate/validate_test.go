package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/core/domain"
)

type signup struct {
	FullName string `json:"fullName" validate:"notblank,max=100"`
	Phone    string `json:"phoneNumber" validate:"len=10,digits"`
	Days     int    `json:"deliveryDays" validate:"min=1,max=10"`
}

func TestStructValid(t *testing.T) {
	require.NoError(t, Struct(signup{FullName: "Asha", Phone: "9876543210", Days: 3}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(signup{FullName: "   ", Phone: "98765abcde", Days: 11})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	fields := Fields(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "fullName must not be blank", fields["fullName"])
	assert.Equal(t, "phoneNumber must contain digits only", fields["phoneNumber"])
	assert.Contains(t, fields["deliveryDays"], "deliveryDays")
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(errors.New("boom")))
	assert.Equal(t, map[string]string{"pin": "wrong"}, Fields(domain.Invalid("pin", "wrong")))
}
