package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTTL = 10 * time.Minute

type cartLine struct {
	ProductID int64  `json:"product_id"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

var (
	shopper   = uuid.MustParse("b6f1f7a4-2c1d-4a43-9a55-1f6f0b9d6e10")
	cartValue = []cartLine{{ProductID: 7, Color: "lavanda", Quantity: 2}}
)

func newCache(t *testing.T) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })

	return cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: defaultTTL}), mock
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return raw
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "product:12", cache.ProductKey(12))
	assert.Equal(t, "cart:b6f1f7a4-2c1d-4a43-9a55-1f6f0b9d6e10", cache.CartKey(shopper))
	assert.Equal(t, "checkout:pi_abc", cache.CheckoutKey("pi_abc"))
	assert.Equal(t, "webhook:event:evt_1", cache.WebhookEventKey("evt_1"))
}

func TestGet(t *testing.T) {
	key := cache.CartKey(shopper)

	t.Run("Success - Hit", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		mock.ExpectGet(key).SetVal(string(mustJSON(t, cartValue)))

		var got []cartLine

		// Act
		found, err := c.Get(t.Context(), key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, cartValue, got)
	})

	t.Run("Success - Miss", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		mock.ExpectGet(key).RedisNil()

		var got []cartLine

		// Act
		found, err := c.Get(t.Context(), key, &got)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		boom := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(boom)

		// Act
		found, err := c.Get(t.Context(), key, &[]cartLine{})

		// Assert
		assert.False(t, found)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), key)
	})

	t.Run("Failure - Stored Value Does Not Decode", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		mock.ExpectGet(key).SetVal(`[{"product_id":"seven"}]`)

		// Act
		found, err := c.Get(t.Context(), key, &[]cartLine{})

		// Assert
		assert.False(t, found)

		var typeErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &typeErr)
	})
}

func TestSet(t *testing.T) {
	key := cache.CartKey(shopper)

	testCases := []struct {
		name    string
		ttl     time.Duration
		wantTTL time.Duration
	}{
		{"Success - Explicit TTL", 720 * time.Hour, 720 * time.Hour},
		{"Success - Zero TTL uses default", 0, defaultTTL},
		{"Success - Negative TTL uses default", -time.Second, defaultTTL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c, mock := newCache(t)
			mock.ExpectSet(key, mustJSON(t, cartValue), tc.wantTTL).SetVal("OK")

			// Act
			err := c.Set(t.Context(), key, cartValue, tc.ttl)

			// Assert
			assert.NoError(t, err)
		})
	}

	t.Run("Failure - Value Cannot Be Encoded", func(t *testing.T) {
		// Arrange
		c, _ := newCache(t)

		// Act
		err := c.Set(t.Context(), key, make(chan int), time.Minute)

		// Assert
		var typeErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		boom := errors.New("READONLY")
		mock.ExpectSet(key, mustJSON(t, cartValue), time.Minute).SetErr(boom)

		// Act
		err := c.Set(t.Context(), key, cartValue, time.Minute)

		// Assert
		assert.ErrorIs(t, err, boom)
	})
}

func TestSetNX(t *testing.T) {
	key := cache.WebhookEventKey("evt_123")
	ttl := 72 * time.Hour
	marker := mustJSON(t, "processing")

	t.Run("Success - First Delivery Claims The Event", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		mock.ExpectSetNX(key, marker, ttl).SetVal(true)

		// Act
		stored, err := c.SetNX(t.Context(), key, "processing", ttl)

		// Assert
		require.NoError(t, err)
		assert.True(t, stored)
	})

	t.Run("Success - Redelivery Is Rejected", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		mock.ExpectSetNX(key, marker, defaultTTL).SetVal(false)

		// Act
		stored, err := c.SetNX(t.Context(), key, "processing", 0)

		// Assert
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		boom := errors.New("i/o timeout")
		mock.ExpectSetNX(key, marker, ttl).SetErr(boom)

		// Act
		stored, err := c.SetNX(t.Context(), key, "processing", ttl)

		// Assert
		assert.False(t, stored)
		assert.ErrorIs(t, err, boom)
	})
}

func TestUpdate(t *testing.T) {
	key := cache.CartKey(shopper)
	ttl := 720 * time.Hour

	t.Run("Success - Writes The Value Derived From The Stored One", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		next := []cartLine{{ProductID: 7, Color: "lavanda", Quantity: 3}}
		mock.ExpectWatch(key)
		mock.ExpectGet(key).SetVal(string(mustJSON(t, cartValue)))
		mock.ExpectTxPipeline()
		mock.ExpectSet(key, mustJSON(t, next), ttl).SetVal("OK")
		mock.ExpectTxPipelineExec()

		var got []cartLine

		// Act
		err := c.Update(t.Context(), key, &got, ttl, func(found bool) (any, error) {
			assert.True(t, found)
			got[0].Quantity++
			return got, nil
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, next, got)
	})

	t.Run("Failure - Callback Error Skips The Write", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		rejected := errors.New("out of stock")
		mock.ExpectWatch(key)
		mock.ExpectGet(key).RedisNil()

		var got []cartLine

		// Act
		err := c.Update(t.Context(), key, &got, ttl, func(found bool) (any, error) {
			assert.False(t, found)
			return nil, rejected
		})

		// Assert
		assert.ErrorIs(t, err, rejected)
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		c, mock := newCache(t)
		boom := errors.New("connection reset")
		mock.ExpectWatch(key)
		mock.ExpectGet(key).SetErr(boom)

		var got []cartLine

		// Act
		err := c.Update(t.Context(), key, &got, ttl, func(bool) (any, error) {
			t.Fatal("callback must not run when the read fails")
			return nil, nil
		})

		// Assert
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Failure - Value Is Not A Pointer", func(t *testing.T) {
		c, _ := newCache(t)

		err := c.Update(t.Context(), key, cartValue, ttl, func(bool) (any, error) { return nil, nil })

		assert.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	key := cache.ProductKey(3)

	t.Run("Success", func(t *testing.T) {
		c, mock := newCache(t)
		mock.ExpectDel(key).SetVal(1)

		assert.NoError(t, c.Delete(t.Context(), key))
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		c, mock := newCache(t)
		boom := errors.New("connection refused")
		mock.ExpectDel(key).SetErr(boom)

		assert.ErrorIs(t, c.Delete(t.Context(), key), boom)
	})
}
