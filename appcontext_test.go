package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppContextThemeSwitching(t *testing.T) {
	ctx := NewAppContext("dark")
	assert.Equal(t, "dark", ctx.Theme().Name)

	ctx.ToggleTheme()
	assert.Equal(t, "light", ctx.Theme().Name)

	// Unknown names fall back to light.
	ctx.SetTheme("solarized")
	assert.Equal(t, "light", ctx.Theme().Name)
}

func TestAppContextSubscribe(t *testing.T) {
	ctx := NewAppContext("light")

	var seen []string
	ctx.Subscribe(func(th *Theme) {
		seen = append(seen, th.Name)
	})
	// Subscribing delivers the current theme immediately.
	assert.Equal(t, []string{"light"}, seen)

	ctx.SetTheme("dark")
	ctx.ToggleTheme()
	assert.Equal(t, []string{"light", "dark", "light"}, seen)
}
