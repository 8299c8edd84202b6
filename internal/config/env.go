package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvOverrides holds settings that may be forced from the environment.
// Empty fields leave the stored preferences untouched.
type EnvOverrides struct {
	APIURL    string `env:"GO_GROWTH_API_URL" env-description:"Backend base URL"`
	AccountID string `env:"GO_GROWTH_ACCOUNT_ID" env-description:"Account used for entitlement lookups"`
	APIToken  string `env:"GO_GROWTH_API_TOKEN" env-description:"Bearer token for the backend"`
	Port      string `env:"GO_GROWTH_PORT" env-description:"Local server port"`
	Language  string `env:"GO_GROWTH_LANGUAGE" env-description:"UI language (vi, en)"`
}

// LoadEnv reads the GO_GROWTH_* variables.
func LoadEnv() (EnvOverrides, error) {
	var env EnvOverrides
	if err := cleanenv.ReadEnv(&env); err != nil {
		return EnvOverrides{}, fmt.Errorf("%s: %w", ErrEnvLoad, err)
	}
	env.APIURL = strings.TrimRight(strings.TrimSpace(env.APIURL), "/")
	env.AccountID = strings.TrimSpace(env.AccountID)
	env.APIToken = strings.TrimSpace(env.APIToken)
	env.Port = strings.TrimSpace(env.Port)
	env.Language = strings.ToLower(strings.TrimSpace(env.Language))
	if !IsSupportedLanguage(env.Language) {
		env.Language = ""
	}
	return env, nil
}

// EnvUsage describes every supported variable.
func EnvUsage() (string, error) {
	header := EnvUsageHeader
	return cleanenv.GetDescription(&EnvOverrides{}, &header)
}

// IsSupportedLanguage reports whether lang is one of SupportedLanguages.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Empty reports whether no override is set.
func (e EnvOverrides) Empty() bool {
	return e == EnvOverrides{}
}
