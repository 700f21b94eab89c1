package types

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptfetch/internal/config"
)

func TestConvertRuntimeConfig_Defaults(t *testing.T) {
	rc, err := ConvertRuntimeConfig(config.DefaultSettings().Network)
	require.NoError(t, err)

	assert.Equal(t, []string{ProtocolAuto, ProtocolHTTP1}, rc.GetProtocols())
	assert.Equal(t, uint16(tls.VersionTLS12), rc.GetMinTLSVersion())
	assert.Equal(t, config.DefaultUserAgent, rc.UserAgent)
	assert.Zero(t, rc.Timeout)
}

func TestConvertRuntimeConfig_Aliases(t *testing.T) {
	rc, err := ConvertRuntimeConfig(config.NetworkSettings{
		PrimaryProtocol:  "HTTP2",
		FallbackProtocol: "quic",
		MinTLSVersion:    "TLS1.3",
		Timeout:          time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{ProtocolHTTP2, ProtocolHTTP3}, rc.Protocols)
	assert.Equal(t, uint16(tls.VersionTLS13), rc.MinTLSVersion)
	assert.Equal(t, time.Minute, rc.Timeout)
}

func TestConvertRuntimeConfig_BadTLS(t *testing.T) {
	_, err := ConvertRuntimeConfig(config.NetworkSettings{MinTLSVersion: "ssl3"})
	assert.Error(t, err)
}

func TestRuntimeConfigNilDefaults(t *testing.T) {
	var rc *RuntimeConfig
	assert.Len(t, rc.GetProtocols(), 2)
	assert.Equal(t, uint16(DefaultMinTLSVersion), rc.GetMinTLSVersion())
}
