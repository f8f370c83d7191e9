package telemetry_test

import (
	"testing"

	"github.com/malaura/storefront/internal/config"
	"github.com/malaura/storefront/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("Success - Disabled Without Endpoint", func(t *testing.T) {
		shutdown, err := telemetry.Setup(t.Context(), &config.OtelConfig{ServiceName: "storefront"}, "test")

		require.NoError(t, err)
		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("Success - Exporter Configured", func(t *testing.T) {
		cfg := &config.OtelConfig{
			ServiceName:      "storefront",
			ExporterEndpoint: "localhost:4318",
			Insecure:         true,
			SamplerRatio:     0.5,
		}

		shutdown, err := telemetry.Setup(t.Context(), cfg, "test")

		require.NoError(t, err)
		require.NotNil(t, shutdown)
	})
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio    float64
		contains string
	}{
		{ratio: 1, contains: "AlwaysOnSampler"},
		{ratio: 2, contains: "AlwaysOnSampler"},
		{ratio: 0, contains: "AlwaysOffSampler"},
		{ratio: 0.25, contains: "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		assert.Contains(t, telemetry.Sampler(tt.ratio).Description(), tt.contains)
	}
}
