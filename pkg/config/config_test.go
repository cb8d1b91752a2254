package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "pricing", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 100000, cfg.Simulation.NPath)
	assert.Equal(t, 0.125, cfg.Simulation.Dt)
	assert.Equal(t, "andersen", cfg.Simulation.Method)
	assert.Equal(t, "qe", cfg.Simulation.Scheme)
	assert.Equal(t, "ig", cfg.Simulation.Dist)
	assert.True(t, cfg.Simulation.Antithetic)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
simulation:
  n_path: 5000
  scheme: milstein
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Simulation.NPath)
	assert.Equal(t, "milstein", cfg.Simulation.Scheme)
	// 未覆盖的键保持默认
	assert.Equal(t, 0.125, cfg.Simulation.Dt)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	// 文件存在但内容非法必须报错，不能吞掉当作缺省
	_, err := Load(path)
	require.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", DBName: "pricing"}
	assert.Equal(t, "u:p@tcp(db:3306)/pricing?charset=utf8mb4&parseTime=True&loc=Local", c.DSN())
}
