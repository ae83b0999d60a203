package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 50, cfg.Notifications.ListLimit)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BCRYPT_COST", 99)
	v.Set("CACHE_TTL", "soon")
	v.Set("JWT_EXPIRATION", "2h")
	v.Set("ALLOWED_ORIGINS", " http://localhost:3000 , ,https://portal.luct.ac.ls")
	v.Set("NOTIFICATION_LIST_LIMIT", 0)

	cfg := fromViper(v)

	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"http://localhost:3000", "https://portal.luct.ac.ls"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 50, cfg.Notifications.ListLimit)
}
