package degrade

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// 工厂函数配置测试
// ============================================================

func TestNew_ConfigNil(t *testing.T) {
	brk, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)
	require.Nil(t, brk)
}

func TestNew_MissingDriver(t *testing.T) {
	brk, err := New(&Config{})
	require.ErrorIs(t, err, ErrUnknownDriver)
	require.Nil(t, brk)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	brk, err := New(&Config{Driver: DriverType("etcd")})
	require.ErrorIs(t, err, ErrUnknownDriver)
	require.Nil(t, brk)
}

func TestNew_DistributedWithoutConnector(t *testing.T) {
	brk, err := New(&Config{Driver: DriverDistributed})
	require.ErrorIs(t, err, ErrConnectorNil)
	require.Nil(t, brk)
}

func TestNew_StandaloneWithRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	brk, err := New(&Config{Driver: DriverStandalone}, WithRegisterer(reg))
	require.NoError(t, err)
	require.NotNil(t, brk)
	defer brk.Close()

	// 迁移后指标应可收集
	_, err = brk.Failure(context.Background())
	require.NoError(t, err)

	metrics, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, metrics)
}

// ============================================================
// 类型与常量测试
// ============================================================

func TestTier_String(t *testing.T) {
	assert.Equal(t, "full", TierFull.String())
	assert.Equal(t, "degraded", TierDegraded.String())
	assert.Equal(t, "maintenance", TierMaintenance.String())
	assert.Equal(t, "tier(7)", Tier(7).String())
}

func TestTier_Valid(t *testing.T) {
	assert.True(t, TierFull.Valid())
	assert.True(t, TierMaintenance.Valid())
	assert.False(t, Tier(0).Valid())
	assert.False(t, Tier(4).Valid())
}

func TestDriverConstants(t *testing.T) {
	assert.Equal(t, DriverType("standalone"), DriverStandalone)
	assert.Equal(t, DriverType("distributed"), DriverDistributed)
}

func TestGuardConfig_Defaults(t *testing.T) {
	cfg := &DistributedConfig{}
	cfg.setDefaults()

	assert.Equal(t, "tiergate:breaker", cfg.Key)
	require.NotNil(t, cfg.Guard)
	assert.Equal(t, uint32(3), cfg.Guard.MaxRequests)
	assert.Equal(t, 0.6, cfg.Guard.FailureThreshold)
}
