package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginScreenStartsAtFirstEmptyField(t *testing.T) {
	ls := NewLoginScreen("https://abc.supabase.co", "anon", "", nil)
	assert.Equal(t, 2, ls.fieldIndex)

	ls = NewLoginScreen("https://abc.supabase.co", "anon", "me@shop.test", nil)
	assert.Equal(t, 3, ls.fieldIndex)
}

func TestLoginScreenSubmit(t *testing.T) {
	var got []string
	ls := NewLoginScreen(" https://abc.supabase.co ", "anon", "me@shop.test ", func(u, k, e, p string) {
		got = []string{u, k, e, p}
	})

	assert.False(t, ls.canSubmit())
	ls.submit()
	assert.Nil(t, got)

	ls.fields[3].SetText(" secret ")
	ls.Error = "old"
	ls.submit()
	assert.Equal(t, []string{"https://abc.supabase.co", "anon", "me@shop.test", " secret "}, got)
	assert.Empty(t, ls.Error)

	got = nil
	ls.Busy = true
	ls.submit()
	assert.Nil(t, got, "no second sign in while one is running")
}
