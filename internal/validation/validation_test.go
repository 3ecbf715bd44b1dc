package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AddAndHas(t *testing.T) {
	errs := New()

	assert.False(t, errs.Any())

	errs.Add("title", "Title must contain at least one letter.")
	errs.Addf("invitees", "Member %s does not exist.", "@ghost")

	assert.True(t, errs.Any())
	assert.True(t, errs.Has("title"))
	assert.True(t, errs.Has("invitees"))
	assert.False(t, errs.Has("description"))
}

func TestErrors_Merge(t *testing.T) {
	a := New()
	a.Add("name", "too long")

	b := New()
	b.Add("name", "missing letter")
	b.Add("due_date", "must be in the future")

	a.Merge(b)

	assert.Len(t, a["name"], 2)
	assert.Len(t, a["due_date"], 1)
}

func TestErrors_ErrorDeterministic(t *testing.T) {
	errs := New()
	errs.Add("b", "second")
	errs.Add("a", "first")

	assert.Equal(t, "a: first; b: second", errs.Error())
}
