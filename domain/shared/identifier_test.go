package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueEntityID(t *testing.T) {
	generated := NewUniqueEntityID()
	assert.False(t, generated.IsZero())
	assert.True(t, IsValidUniqueEntityID(generated.Value()))

	same := UniqueEntityIDFrom(generated.String())
	other := NewUniqueEntityID()

	assert.True(t, generated.Equals(&same))
	assert.False(t, generated.Equals(&other))
	assert.False(t, generated.Equals(nil))
}

func TestUniqueEntityIDFromEmptyGenerates(t *testing.T) {
	id := UniqueEntityIDFrom("")
	assert.False(t, id.IsZero())
}

func TestIsValidUniqueEntityID(t *testing.T) {
	assert.True(t, IsValidUniqueEntityID("6f1c9e7e-8e0b-4c61-9a57-3c1d2f0b8a11"))
	assert.False(t, IsValidUniqueEntityID("not-a-uuid"))
	assert.False(t, IsValidUniqueEntityID(""))
}

func TestEntityEquality(t *testing.T) {
	type taskProps struct{ Title string }

	id := NewUniqueEntityID()
	a := NewEntity(taskProps{Title: "write docs"}, id)
	renamed := NewEntity(taskProps{Title: "write more docs"}, id)
	twin := NewEntity(taskProps{Title: "write docs"}, UniqueEntityID{})

	assert.True(t, a.Equals(&a))
	assert.True(t, a.Equals(&renamed), "same identifier, different attributes")
	assert.False(t, a.Equals(&twin), "same attributes, different identifier")
	assert.False(t, a.Equals(nil))
	assert.False(t, twin.ID().IsZero())
	assert.Equal(t, "write docs", a.Props().Title)
}
