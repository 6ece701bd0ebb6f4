package main

import (
	// Go Internal Packages
	"os"
	"path/filepath"
	"testing"
	"time"

	// Local Packages
	config "daimapay/config"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: memory\nreconciler:\n  interval: 30s\n"), 0o600))

	conf := config.Config{}
	require.NoError(t, LoadConfig(path).Unmarshal("", &conf))
	assert.Equal(t, config.StoreMemory, conf.Store.Driver)
	assert.Equal(t, 30*time.Second, conf.Reconciler.Interval)
	assert.Equal(t, "Daima-Pay-v1", conf.Cache.Name)
	require.NoError(t, conf.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	conf := config.Config{}
	require.NoError(t, LoadConfig(filepath.Join(t.TempDir(), "absent.yml")).Unmarshal("", &conf))
	assert.Equal(t, "daimapay", conf.Application)
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PAYMENT_API_URL", "http://payments.local")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("IS_PROD_MODE", "true")

	conf := LoadSecrets(config.Config{})
	assert.Equal(t, ":8080", conf.Server.Address)
	assert.Equal(t, "http://payments.local", conf.API.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, conf.Kafka.Brokers)
	assert.True(t, conf.IsProdMode)
}
