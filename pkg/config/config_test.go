package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.HistoryRequireAuth, "el histórico debe estar protegido por defecto")
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "estoque.db", cfg.DB.Filename)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.AMQP.URL)
}

func TestFromViper_LeeVariables(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "SQLite")
	v.Set("DB_FILENAME", "/tmp/saep.db")
	v.Set("HTTP_PORT", "5000")
	v.Set("HISTORY_REQUIRE_AUTH", "false")
	v.Set("JWT_SECRET", "s3cr3t")

	cfg := fromViper(v)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/saep.db", cfg.DB.Filename)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.False(t, cfg.App.HistoryRequireAuth)
	require.NoError(t, cfg.Validate())
}

func TestFromViper_PuertoInvalidoUsaDefecto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "abc")

	cfg := fromViper(v)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestValidate(t *testing.T) {
	cfg := fromViper(viper.New())
	assert.Error(t, cfg.Validate(), "sin JWT_SECRET no debe validar")

	cfg.JWT.Secret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.DB.Driver = "mysql"
	assert.Error(t, cfg.Validate(), "driver desconocido")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/estoque?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h/x"
	assert.Equal(t, "postgres://u:p@h/x", c.ConnectionString())
}
