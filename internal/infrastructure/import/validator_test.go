package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomRules() []FieldRule {
	return []FieldRule{
		Field("number").Required().Length(1, 20).Unique().Build(),
		Field("block").Length(0, 20).Build(),
		Field("floor").Int().Range(decimal.NewFromInt(-5), decimal.NewFromInt(200)).Build(),
		Field("type").Required().OneOf("SINGLE", "DOUBLE", "TRIPLE", "DORMITORY").Build(),
		Field("capacity").Required().Int().Range(decimal.NewFromInt(1), decimal.NewFromInt(20)).Build(),
		Field("monthly_rent").Required().Decimal().Min(decimal.Zero).Build(),
	}
}

func row(line int, data map[string]string) *Row {
	return &Row{LineNumber: line, Data: data}
}

func TestFieldValidator_ValidateRow(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
		code string
	}{
		{"valid", map[string]string{"number": "A-1", "type": "double", "capacity": "2", "monthly_rent": "300.50"}, ""},
		{"missing required", map[string]string{"type": "SINGLE", "capacity": "1", "monthly_rent": "1"}, ErrCodeRequiredField},
		{"not an int", map[string]string{"number": "A-2", "type": "SINGLE", "capacity": "two", "monthly_rent": "1"}, ErrCodeInvalidType},
		{"out of range", map[string]string{"number": "A-3", "type": "SINGLE", "capacity": "21", "monthly_rent": "1"}, ErrCodeInvalidRange},
		{"negative rent", map[string]string{"number": "A-4", "type": "SINGLE", "capacity": "1", "monthly_rent": "-1"}, ErrCodeInvalidRange},
		{"unknown option", map[string]string{"number": "A-5", "type": "SUITE", "capacity": "1", "monthly_rent": "1"}, ErrCodeInvalidValue},
		{"too long", map[string]string{"number": strings.Repeat("x", 21), "type": "SINGLE", "capacity": "1", "monthly_rent": "1"}, ErrCodeInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFieldValidator(roomRules(), 10)
			ok := v.ValidateRow(row(2, tt.data))
			if tt.code == "" {
				assert.True(t, ok)
				assert.False(t, v.Errors().HasErrors())
				return
			}
			assert.False(t, ok)
			require.NotEmpty(t, v.Errors().Errors())
			assert.Equal(t, tt.code, v.Errors().Errors()[0].Code)
		})
	}
}

func TestFieldValidator_UniqueIsCaseInsensitive(t *testing.T) {
	v := NewFieldValidator([]FieldRule{Field("email").Email().Unique().Build()}, 10)

	assert.True(t, v.ValidateRow(row(2, map[string]string{"email": "ann@x.io"})))
	assert.False(t, v.ValidateRow(row(3, map[string]string{"email": "ANN@x.io"})))

	errs := v.Errors().Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeDuplicate, errs[0].Code)
	assert.Contains(t, errs[0].Message, "row 2")
}

func TestFieldValidator_EmailAndCustom(t *testing.T) {
	v := NewFieldValidator([]FieldRule{
		Field("email").Email().Build(),
		Field("password").Custom(func(s string) error {
			if len(s) < 8 {
				return errors.New("too short")
			}
			return nil
		}).Build(),
	}, 10)

	assert.False(t, v.ValidateRow(row(2, map[string]string{"email": "Ann <ann@x.io>", "password": "longenough"})))
	assert.False(t, v.ValidateRow(row(3, map[string]string{"email": "ann@x.io", "password": "short"})))
	assert.True(t, v.ValidateRow(row(4, map[string]string{"email": "ann@x.io", "password": "longenough"})))

	errs := v.Errors().Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, ErrCodeInvalidType, errs[0].Code)
	assert.Equal(t, "too short", errs[1].Message)
}

func TestTitleName(t *testing.T) {
	assert.Equal(t, "Jane Doe", TitleName("  jANE   doe "))
	assert.Equal(t, "Émile Zola", TitleName("émile zola"))
}

func TestValidate(t *testing.T) {
	data := "Number,Type,Capacity,Monthly Rent\n" +
		"A-101,DOUBLE,2,300\n" +
		"A-102,SUITE,2,300\n" +
		"\n" +
		"a-101,SINGLE,1,250\n" +
		"B-201,SINGLE,1,275.5\n"
	parser, err := NewCSVParser(strings.NewReader(data))
	require.NoError(t, err)

	result, err := Validate(parser, roomRules(), 100)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	require.Len(t, result.Valid, 2)
	assert.Equal(t, "A-101", result.Valid[0].Get("number"))
	assert.Equal(t, "B-201", result.Valid[1].Get("number"))
	assert.Equal(t, []int{3, 5}, result.FailedRows())
}

func TestValidate_StructuralErrors(t *testing.T) {
	t.Run("missing required column", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("number,type\nA-1,SINGLE\n"))
		require.NoError(t, err)

		_, err = Validate(parser, roomRules(), 10)
		assert.ErrorIs(t, err, ErrMissingHeader)
		assert.Contains(t, err.Error(), "capacity")
	})

	t.Run("header only", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("number,type,capacity,monthly_rent\n"))
		require.NoError(t, err)

		_, err = Validate(parser, roomRules(), 10)
		assert.ErrorIs(t, err, ErrNoDataRows)
	})
}
