package main

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/zalando/go-keyring"
)

func TestApplyEnvOverrides(t *testing.T) {
	keyring.MockInit()
	prefs := test.NewApp().Preferences()
	prefs.SetString(config.PrefServerPort, "18181")
	prefs.SetString(config.PrefLanguage, "vi")

	applyEnvOverrides(prefs, config.EnvOverrides{
		APIURL:    "https://api.example.test",
		AccountID: "acc-1",
		APIToken:  "tok",
		Language:  "en",
	})

	assert.Equal(t, "https://api.example.test", prefs.String(config.PrefAPIURL))
	assert.Equal(t, "acc-1", prefs.String(config.PrefAccountID))
	assert.Equal(t, "en", prefs.String(config.PrefLanguage))
	assert.Equal(t, "18181", prefs.String(config.PrefServerPort), "Unset variables keep the stored value")

	token, err := keyring.Get(config.KeyringService, config.KeyringTokenUser)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestApplyEnvOverrides_Empty(t *testing.T) {
	keyring.MockInit()
	prefs := test.NewApp().Preferences()
	prefs.SetString(config.PrefAPIURL, "https://kept.example.test")

	applyEnvOverrides(prefs, config.EnvOverrides{})

	assert.Equal(t, "https://kept.example.test", prefs.String(config.PrefAPIURL))
	_, err := keyring.Get(config.KeyringService, config.KeyringTokenUser)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
