package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/groupby/internal/app/appcontext"
)

func TestParseDefaults(t *testing.T) {
	conf, err := Parse(appcontext.Declare(appcontext.EnvCLI))
	require.NoError(t, err)

	assert.Equal(t, "localhost:9010", conf.ServiceAddress)
	assert.Equal(t, 100, conf.DefaultPerPage)
	assert.Equal(t, uint(3), conf.PostgresConnectAttempts)
	assert.Equal(t, 60*time.Second, conf.HTTPServerShutdownTimeout)
	assert.Equal(t, appcontext.EnvCLI, conf.AppContext.Env)
}

func TestParseFromEnv(t *testing.T) {
	t.Setenv("GROUPBY_LISTINGS_PATH", "/etc/groupby/listings.yaml")
	t.Setenv("GROUPBY_DEFAULT_PER_PAGE", "25")
	t.Setenv("GROUPBY_DEV_MODE", "true")

	conf, err := Parse(appcontext.Declare(appcontext.EnvServer))
	require.NoError(t, err)

	assert.Equal(t, "/etc/groupby/listings.yaml", conf.ListingsPath)
	assert.Equal(t, 25, conf.DefaultPerPage)
	assert.True(t, conf.DevMode)
}

func TestParseRejectsMalformedValues(t *testing.T) {
	t.Setenv("GROUPBY_DEFAULT_PER_PAGE", "many")

	_, err := Parse(appcontext.Declare(appcontext.EnvServer))
	assert.Error(t, err)
}
