package wire

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tutor/internal/config"
	"github.com/mithrel/tutor/internal/render"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()
	v.SetConfigFile(t.TempDir() + "/missing.toml")
	require.NoError(t, config.Load(context.Background(), v))
	v.Set("data_dir", t.TempDir())
	return v
}

func TestBuildApp(t *testing.T) {
	v := testViper(t)
	v.Set("render.engine", "markdown")
	v.Set("render.sanitize", false)

	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, render.EngineMarkdown, app.Renderer.Engine)
	assert.False(t, app.Renderer.Sanitize)
	assert.Equal(t, "http://localhost:8000", app.Backend.BaseURL())
	require.NotNil(t, app.Store)
	require.NotNil(t, app.Wizard)
	assert.Equal(t, 0, app.Sessions.Len())
}

func TestBuildAppMemStore(t *testing.T) {
	v := testViper(t)
	v.Set("db_url", "mem://")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	require.NoError(t, app.Close())
}

func TestBuildAppRejectsInvalidConfig(t *testing.T) {
	v := testViper(t)
	v.Set("backend.api_version", "v9")
	_, err := BuildApp(context.Background(), v)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, f := range []string{"console", "json"} {
		lg, err := NewLogger("debug", f)
		require.NoError(t, err)
		lg.Debug("hello")
	}
	_, err := NewLogger("loud", "console")
	require.Error(t, err)
	_, err = NewLogger("info", "xml")
	require.Error(t, err)
}
