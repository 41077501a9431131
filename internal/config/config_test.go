package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	keys := []string{
		"STOREFRONT_APP_NAME",
		"STOREFRONT_APP_ENV",
		"STOREFRONT_APP_PORT",
		"STOREFRONT_STORE_DRIVER",
		"STOREFRONT_STORE_POSTGRES_DSN",
		"STOREFRONT_SYNC_SESSION",
		"STOREFRONT_SYNC_CART",
		"STOREFRONT_BACKEND_BASE_URL",
		"STOREFRONT_BACKEND_REQUEST_TIMEOUT",
		"STOREFRONT_AUTH_TOKEN_SECRET",
		"STOREFRONT_CHECKOUT_REQUIRE_UPI_ID",
		"STOREFRONT_CHECKOUT_REQUIRE_INDIAN_PHONE",
		"STOREFRONT_KAFKA_BROKERS",
	}
	original := make(map[string]string, len(keys))
	for _, k := range keys {
		original[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Equal(t, "http://localhost:5000/api", cfg.Backend.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
		assert.True(t, cfg.Sync.Session)
		assert.False(t, cfg.Sync.Cart)
		assert.False(t, cfg.Sync.Wishlist)
		assert.False(t, cfg.Checkout.RequireUPIID)
		assert.False(t, cfg.Checkout.RequireIndianPhone)
		assert.NotEmpty(t, cfg.Auth.TokenSecret)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_PORT", "9000")
		os.Setenv("STOREFRONT_STORE_DRIVER", "sqlite")
		os.Setenv("STOREFRONT_SYNC_SESSION", "false")
		os.Setenv("STOREFRONT_SYNC_CART", "true")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "http://api.internal/api")
		os.Setenv("STOREFRONT_BACKEND_REQUEST_TIMEOUT", "3s")
		os.Setenv("STOREFRONT_CHECKOUT_REQUIRE_UPI_ID", "true")
		os.Setenv("STOREFRONT_CHECKOUT_REQUIRE_INDIAN_PHONE", "true")
		os.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Store.Driver)
		assert.False(t, cfg.Sync.Session)
		assert.True(t, cfg.Sync.Cart)
		assert.Equal(t, "http://api.internal/api", cfg.Backend.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Backend.RequestTimeout)
		assert.True(t, cfg.Checkout.RequireUPIID)
		assert.True(t, cfg.Checkout.RequireIndianPhone)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("rejects unknown store driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_STORE_DRIVER", "etcd")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.driver")
	})

	t.Run("postgres driver requires a dsn", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_STORE_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres_dsn")
	})

	t.Run("production requires a long token secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_STORE_DRIVER", "redis")
		os.Setenv("STOREFRONT_AUTH_TOKEN_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "c"}))
	assert.Nil(t, splitList(nil))
	assert.Nil(t, splitList([]string{" , "}))
}
