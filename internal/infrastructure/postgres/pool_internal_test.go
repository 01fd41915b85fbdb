package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/authors-report/pkg/config"
)

func TestParsePoolConfig_LimitesYNombre(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "report", Password: "p@ss:word",
		DBName: "authors_report", SSLMode: "disable",
		MaxConns: 4, MinConns: 10,
	}

	pc, err := parsePoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns, "MinConns no puede superar MaxConns")
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

func TestParsePoolConfig_DatabaseURLConservaApplicationName(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@localhost:5432/x?sslmode=disable&application_name=otro",
	}

	pc, err := parsePoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(0), pc.MinConns)
	assert.Equal(t, "otro", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestParsePoolConfig_DSNInvalido(t *testing.T) {
	_, err := parsePoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
