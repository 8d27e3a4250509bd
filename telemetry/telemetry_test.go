package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // Test mutates process environment
func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_SERVICE_VERSION", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	config, err := LoadConfigFromEnv("dev")

	require.NoError(t, err)
	require.False(t, config.Enabled)
	require.Equal(t, "fsm", config.ServiceName)
	require.Equal(t, "1.0.0", config.ServiceVersion)
	require.Equal(t, "dev", config.Environment)
	require.Empty(t, config.Endpoint)
	require.Equal(t, 5*time.Second, config.Timeout)
}

//nolint:paralleltest // Test mutates process environment
func TestLoadConfigFromEnvKubernetesDetection(t *testing.T) {
	tests := []struct {
		name             string
		kubernetesHost   string
		customEndpoint   string
		expectedEndpoint string
	}{
		{
			name:             "kubernetes environment detected",
			kubernetesHost:   "10.0.0.1",
			expectedEndpoint: "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318",
		},
		{
			name:             "non-kubernetes environment",
			kubernetesHost:   "",
			expectedEndpoint: "",
		},
		{
			name:             "custom endpoint overrides the in-cluster default",
			kubernetesHost:   "10.0.0.1",
			customEndpoint:   "http://custom-collector:4318",
			expectedEndpoint: "http://custom-collector:4318",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv("KUBERNETES_SERVICE_HOST", test.kubernetesHost)
			t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", test.customEndpoint)

			config, err := LoadConfigFromEnv("dev")

			require.NoError(t, err)
			require.Equal(t, test.expectedEndpoint, config.Endpoint)
		})
	}
}

//nolint:paralleltest // Test mutates process environment
func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "conn-manager")
	t.Setenv("OTEL_SERVICE_VERSION", "2.3.4")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "30s")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	config, err := LoadConfigFromEnv("prod")

	require.NoError(t, err)
	require.True(t, config.Enabled)
	require.Equal(t, "conn-manager", config.ServiceName)
	require.Equal(t, "2.3.4", config.ServiceVersion)
	require.Equal(t, 30*time.Second, config.Timeout)
}

//nolint:paralleltest // Test mutates process environment
func TestLoadConfigFromEnvBadTimeout(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "not-a-duration")

	_, err := LoadConfigFromEnv("dev")

	require.Error(t, err)
}

func TestInitializeDisabled(t *testing.T) {
	t.Parallel()

	err := Initialize(t.Context(), &Config{Enabled: false})

	require.NoError(t, err)
}

func TestInitializeNoEndpoint(t *testing.T) {
	t.Parallel()

	err := Initialize(t.Context(), &Config{Enabled: true, Endpoint: ""})

	require.NoError(t, err)
}
