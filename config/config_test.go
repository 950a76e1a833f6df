package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("POLARGRAPH_PORT", "/dev/ttyUSB1")
	t.Setenv("POLARGRAPH_BAUD", "115200")
	t.Setenv("POLARGRAPH_READ_TIMEOUT", "250ms")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Port)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, 512, cfg.LineBuffer)
}

func TestLoad_File(t *testing.T) {
	name := filepath.Join(t.TempDir(), "polargraph.yaml")
	require.NoError(t, os.WriteFile(name, []byte("port: /dev/ttyS0\nline_buffer: 1024\n"), 0644))
	t.Setenv("POLARGRAPH_LINE_BUFFER", "2048")

	cfg, err := Load(viper.New(), name)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS0", cfg.Port)
	assert.Equal(t, 2048, cfg.LineBuffer, "env wins over file")
	assert.Equal(t, 250000, cfg.Baud)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())

	c := Defaults()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = Defaults()
	c.Baud = 0
	assert.Error(t, c.Validate())

	c = Defaults()
	c.ReadTimeout = 0
	assert.Error(t, c.Validate())

	c = Defaults()
	c.LineBuffer = 4
	assert.Error(t, c.Validate())
}
