package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectedOptionsKeyOrderInsensitive(t *testing.T) {
	a := SelectedOptions{{Name: "size", Value: "42"}, {Name: "color", Value: "black"}}
	b := SelectedOptions{{Name: "color", Value: "black"}, {Name: "size", Value: "42"}}

	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equal(b))
}

func TestSelectedOptionsKeyDistinguishesValues(t *testing.T) {
	a := SelectedOptions{{Name: "size", Value: "42"}}
	b := SelectedOptions{{Name: "size", Value: "43"}}

	assert.NotEqual(t, a.Key(), b.Key())
	assert.False(t, a.Equal(b))
}

func TestSelectedOptionsEmpty(t *testing.T) {
	var empty SelectedOptions
	assert.Equal(t, "", empty.Key())
	assert.Nil(t, empty.Canonical())
	assert.True(t, empty.Equal(SelectedOptions{}))
}

func TestCanonicalDoesNotMutate(t *testing.T) {
	original := SelectedOptions{{Name: "size", Value: "42"}, {Name: "color", Value: "black"}}
	_ = original.Canonical()
	assert.Equal(t, "size", original[0].Name)
}
