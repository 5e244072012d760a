package guard

import (
	"testing"

	"ddd-kernel/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgainstNilOrEmpty(t *testing.T) {
	var nilPtr *int
	var nilSlice []string
	var nilMap map[string]int

	failing := []any{nil, "", nilPtr, nilSlice, nilMap}
	for _, v := range failing {
		r := AgainstNilOrEmpty(v, "x")
		assert.False(t, r.Succeeded, "value %#v should fail", v)
		assert.Equal(t, "x", r.FailedArgName)
		assert.Contains(t, r.Message, "x")
	}

	passing := []any{0, false, " ", "value", []string{}, 0.0}
	for _, v := range passing {
		assert.True(t, AgainstNilOrEmpty(v, "x").Succeeded, "value %#v should pass", v)
	}
}

func TestAgainstNilOrEmptyBulk(t *testing.T) {
	r := AgainstNilOrEmptyBulk(
		Argument{Argument: "board", ArgumentName: "title"},
		Argument{Argument: "", ArgumentName: "owner"},
		Argument{Argument: nil, ArgumentName: "createdAt"},
	)
	assert.False(t, r.Succeeded)
	assert.Equal(t, "owner", r.FailedArgName)

	assert.True(t, AgainstNilOrEmptyBulk().Succeeded)
	assert.True(t, AgainstNilOrEmptyBulk(Argument{Argument: 1, ArgumentName: "n"}).Succeeded)
}

func TestIsOneOf(t *testing.T) {
	allowed := []string{"TODO", "DOING", "DONE"}

	assert.True(t, IsOneOf("DOING", allowed, "status").Succeeded)

	r := IsOneOf("BLOCKED", allowed, "status")
	require.False(t, r.Succeeded)
	assert.Equal(t, `status isn't oneOf the correct types in ["TODO","DOING","DONE"]. Got "BLOCKED".`, r.Message)
	assert.Equal(t, "status", r.FailedArgName)

	assert.False(t, IsOneOf(4, []int{1, 2, 3}, "n").Succeeded)
	assert.False(t, IsOneOf("x", nil, "n").Succeeded)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(5, 1, 10, "n").Succeeded)
	assert.True(t, InRange(1, 1, 10, "n").Succeeded)
	assert.True(t, InRange(10, 1, 10, "n").Succeeded)

	r := InRange(11, 1, 10, "n")
	require.False(t, r.Succeeded)
	assert.Equal(t, "n is not within range 1 to 10.", r.Message)
	assert.Equal(t, "n", r.FailedArgName)

	assert.False(t, InRange(0.5, 1.0, 2.0, "ratio").Succeeded)
}

func TestAllInRange(t *testing.T) {
	assert.True(t, AllInRange([]int{1, 5, 10}, 1, 10, "scores").Succeeded)
	assert.True(t, AllInRange([]int{}, 1, 10, "scores").Succeeded)

	r := AllInRange([]int{3, 12, 0}, 1, 10, "scores")
	require.False(t, r.Succeeded)
	assert.Equal(t, "scores is not within range 1 to 10: element 1 is 12.", r.Message)
}

func TestCombine(t *testing.T) {
	assert.True(t, Combine().Succeeded)
	assert.True(t, Combine(InRange(1, 0, 2, "a"), AgainstNilOrEmpty("x", "b")).Succeeded)

	r := Combine(
		InRange(1, 0, 2, "a"),
		AgainstNilOrEmpty("", "b"),
		InRange(9, 0, 2, "c"),
	)
	assert.False(t, r.Succeeded)
	assert.Equal(t, "b", r.FailedArgName)
	assert.Equal(t, "b is empty", r.Message)
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, AgainstNilOrEmpty("ok", "title").ToDomainError("task"))

	err := AgainstNilOrEmpty("", "title").ToDomainError("task")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "title", err.Field)
	assert.Equal(t, "task", err.Entity)
}
