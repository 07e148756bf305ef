package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "room not found")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ErrNotFound)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, "NOT_FOUND", CodeOf(err))
	})

	t.Run("different code does not match", func(t *testing.T) {
		assert.False(t, errors.Is(ErrForbidden, ErrNotFound))
	})

	t.Run("cause is unwrapped", func(t *testing.T) {
		cause := errors.New("db down")
		err := ErrInvalidState.WithCause(cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ErrInvalidState.Message, err.Error())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)

	mapped := MapPaginated(p, func(i int) string { return fmt.Sprint(i) })
	assert.Equal(t, []string{"1", "2"}, mapped.Items)
	assert.Equal(t, int64(21), mapped.Total)
}

func TestPageRequest_Normalize(t *testing.T) {
	p := PageRequest{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = PageRequest{Page: 3}.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 40, p.Offset())
}

func TestActor_CanAccess(t *testing.T) {
	student := NewActor([16]byte{1}, RoleStudent)
	admin := NewActor([16]byte{2}, RoleAdmin)

	assert.True(t, student.CanAccess([16]byte{1}))
	assert.False(t, student.CanAccess([16]byte{3}))
	assert.True(t, admin.CanAccess([16]byte{3}))
	assert.False(t, Role("GUEST").IsValid())
}
