// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingInput struct {
	Type string  `validate:"required,commodity_type"`
	Qty  float64 `validate:"required,gt=0"`
	Unit string  `validate:"required,unit"`
}

func TestValidateStructAcceptsValidListing(t *testing.T) {
	input := listingInput{Type: "Soybean", Qty: 500, Unit: "kg"}
	assert.NoError(t, ValidateStruct(input))
}

func TestCommodityTypeValidator(t *testing.T) {
	for _, valid := range []string{"Soybean", "Sunflower", "Groundnut", "Mustard", "Sesame"} {
		input := listingInput{Type: valid, Qty: 1, Unit: "kg"}
		assert.NoError(t, ValidateStruct(input), valid)
	}

	input := listingInput{Type: "Wheat", Qty: 1, Unit: "kg"}
	err := ValidateStruct(input)
	require.Error(t, err)

	fieldErrors := GetValidationErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "type", fieldErrors[0].Field)
	assert.Equal(t, "Unknown commodity type", fieldErrors[0].Message)
}

func TestUnitValidator(t *testing.T) {
	input := listingInput{Type: "Soybean", Qty: 1, Unit: "quintal"}
	err := ValidateStruct(input)
	require.Error(t, err)

	fieldErrors := GetValidationErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "unit", fieldErrors[0].Tag)
}

func TestZeroQtyRejected(t *testing.T) {
	input := listingInput{Type: "Soybean", Qty: 0, Unit: "kg"}
	err := ValidateStruct(input)
	require.Error(t, err)

	fieldErrors := GetValidationErrors(err)
	require.Len(t, fieldErrors, 2, "zero fails both required and gt")
}

func TestIndianPhoneValidator(t *testing.T) {
	type phoneInput struct {
		Phone string `validate:"omitempty,indian_phone"`
	}

	for _, valid := range []string{"", "9876543210", "+919876543210"} {
		assert.NoError(t, ValidateStruct(phoneInput{Phone: valid}), valid)
	}
	for _, invalid := range []string{"12345", "not-a-phone", "+1 555 0100"} {
		assert.Error(t, ValidateStruct(phoneInput{Phone: invalid}), invalid)
	}
}

func TestGetValidationErrorsOnNonValidationError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
