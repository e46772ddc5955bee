package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/config"
)

func TestPoolConfig_AppliesLimitsAndSession(t *testing.T) {
	poolCfg, err := poolConfig(config.PostgresConfig{
		DSN:             "postgres://svc:pw@localhost:5432/shipments",
		MaxConns:        7,
		MinConns:        1,
		ConnMaxIdleSec:  30,
		ConnMaxLifeSec:  600,
		ApplicationName: "shipment-service",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(7), poolCfg.MaxConns)
	assert.Equal(t, int32(1), poolCfg.MinConns)
	assert.Equal(t, 30*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, "UTC", poolCfg.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "shipment-service", poolCfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_DSNApplicationNameWins(t *testing.T) {
	poolCfg, err := poolConfig(config.PostgresConfig{
		DSN:             "postgres://svc@localhost/shipments?application_name=ops-shell",
		ApplicationName: "shipment-service",
	})
	require.NoError(t, err)
	assert.Equal(t, "ops-shell", poolCfg.ConnConfig.RuntimeParams["application_name"])
}

func TestNewPostgres_EmptyDSNHasNoPool(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))

	_, err = poolConfig(config.PostgresConfig{DSN: "::not a dsn"})
	assert.Error(t, err)
}
