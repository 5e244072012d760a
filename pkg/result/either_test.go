package result

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEitherSides(t *testing.T) {
	left := Left[*Result[int], *Result[int]](Fail[int](errors.New("invalid")))
	right := Right[*Result[int]](Ok(7))

	assert.True(t, left.IsLeft())
	assert.False(t, left.IsRight())
	assert.EqualError(t, left.LeftValue().Err(), "invalid")
	assert.Nil(t, left.RightValue())

	assert.True(t, right.IsRight())
	assert.False(t, right.IsLeft())
	assert.Equal(t, 7, right.RightValue().Value())
	assert.Nil(t, right.LeftValue())
}

func TestFold(t *testing.T) {
	describe := func(e Either[error, int]) string {
		return Fold(e,
			func(err error) string { return "error: " + err.Error() },
			func(v int) string { return "value: " + strconv.Itoa(v) },
		)
	}

	assert.Equal(t, "error: bad", describe(Left[error, int](errors.New("bad"))))
	assert.Equal(t, "value: 3", describe(Right[error](3)))
}

func TestIsLeftBulk(t *testing.T) {
	t.Run("first left wins", func(t *testing.T) {
		firstLeft := Left[*Result[string], *Result[int]](FailMessage[string]("name"))
		secondLeft := Left[*Result[string], *Result[int]](FailMessage[string]("email"))

		got := IsLeftBulk(Right[*Result[string]](Ok(1)), firstLeft, secondLeft)
		require.True(t, got.IsLeft())

		left, ok := got.(Either[*Result[string], *Result[int]])
		require.True(t, ok)
		assert.EqualError(t, left.LeftValue().Err(), "name")
	})

	t.Run("default success right", func(t *testing.T) {
		for _, got := range []Sided{IsLeftBulk(), IsLeftBulk(Right[error](1), Right[error]("x"))} {
			require.True(t, got.IsRight())
			right, ok := got.(Either[any, *Result[string]])
			require.True(t, ok)
			assert.Equal(t, "success", right.RightValue().Value())
		}
	})
}
