package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "test_photos", cfg.PhotosRoot)
	assert.Equal(t, "index.html", cfg.IndexPath)
	assert.False(t, cfg.Logging)
	assert.Equal(t, time.Duration(0), cfg.Latency())
	assert.Equal(t, 500*1024, cfg.ChunkSize())
	assert.Equal(t, "zip", cfg.ZipBinary)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("LATENCY", "0.25")
	t.Setenv("LOGGING", "true")
	t.Setenv("PHOTOS_ROOT_FOLDER", "/srv/photos")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Latency())
	assert.True(t, cfg.Logging)
	assert.Equal(t, "/srv/photos", cfg.PhotosRoot)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LATENCY", "3")
	t.Setenv("PHOTOS_ROOT_FOLDER", "/srv/photos")
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := Load(newFlagSet(t, "--latency=0.5", "--image_path=/tmp/photos", "--logging"))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Latency())
	assert.Equal(t, "/tmp/photos", cfg.PhotosRoot)
	assert.True(t, cfg.Logging)
	assert.Equal(t, 9000, cfg.HTTPPort)
}

func TestLoad_RootNotCheckedAtStartup(t *testing.T) {
	cfg, err := Load(newFlagSet(t, "--image_path=/definitely/not/here"))
	require.NoError(t, err)
	assert.Equal(t, "/definitely/not/here", cfg.PhotosRoot)
}

func TestLoad_NegativeLatency(t *testing.T) {
	_, err := Load(newFlagSet(t, "--latency=-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LATENCY", "fast")

	_, err := Load(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvParse)
}

func TestLoad_ZeroChunkSize(t *testing.T) {
	_, err := Load(newFlagSet(t, "--chunk_kb=0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
