package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "SIGNUP_TOKEN_BALANCE", "REDIS_ADDR", "JWT_ACCESS_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.True(t, c.UsePostgres())
	assert.Equal(t, int64(100), c.SignupTokenBalance)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, time.Hour, c.AccessTTL)
	assert.Empty(t, c.CORSOrigins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("SIGNUP_TOKEN_BALANCE", "250")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es:9200")

	c := Load()
	assert.False(t, c.UsePostgres())
	assert.Equal(t, int64(250), c.SignupTokenBalance)
	assert.Equal(t, 15*time.Minute, c.AccessTTL)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, int32(10), c.DBMaxConns)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, c.ESAddrs())
}

func TestPostgresDSN_EscapesCredentials(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "market", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/market?sslmode=disable", c.PostgresDSN())
}
