package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowError_Error(t *testing.T) {
	assert.Equal(t, "row 3, column 'email': field 'email' is required",
		NewRowError(3, "email", ErrCodeRequiredField, "field 'email' is required").Error())
	assert.Equal(t, "row 4: bad row", NewRowError(4, "", ErrCodeMalformedRow, "bad row").Error())
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection(2)
	assert.False(t, ec.HasErrors())
	assert.Equal(t, "no errors", ec.String())

	ec.AddRequiredError(2, "email")
	ec.AddTypeError(2, "floor", "int", "first")
	ec.AddRequiredError(5, "name")

	assert.True(t, ec.HasErrors())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, 3, ec.TotalCount())
	assert.Len(t, ec.Errors(), 2)
	assert.Contains(t, ec.String(), "showing first 2")

	byRow := ec.ByRow()
	assert.Len(t, byRow[2], 2)
	assert.Equal(t, "email: field 'email' is required; floor: expected int", RowMessage(byRow[2]))
}

func TestNewErrorCollection_DefaultLimit(t *testing.T) {
	ec := NewErrorCollection(0)
	for i := 0; i < 150; i++ {
		ec.AddRequiredError(i, "x")
	}
	assert.Len(t, ec.Errors(), 100)
}
