package types

import (
	"crypto/tls"
	"fmt"
	"strings"

	"scriptfetch/internal/config"
)

// ConvertRuntimeConfig converts the app-level network settings to the engine-level RuntimeConfig.
func ConvertRuntimeConfig(ns config.NetworkSettings) (*RuntimeConfig, error) {
	minTLS, err := ParseTLSVersion(ns.MinTLSVersion)
	if err != nil {
		return nil, err
	}
	return &RuntimeConfig{
		Protocols:     []string{normalizeProtocol(ns.PrimaryProtocol), normalizeProtocol(ns.FallbackProtocol)},
		MinTLSVersion: minTLS,
		UserAgent:     ns.UserAgent,
		ProxyURL:      ns.ProxyURL,
		Timeout:       ns.Timeout,
	}, nil
}

// ParseTLSVersion maps "1.0".."1.3" to the crypto/tls constant. Empty means TLS 1.2.
func ParseTLSVersion(v string) (uint16, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "tls") {
	case "":
		return DefaultMinTLSVersion, nil
	case "1.0", "10":
		return tls.VersionTLS10, nil
	case "1.1", "11":
		return tls.VersionTLS11, nil
	case "1.2", "12":
		return tls.VersionTLS12, nil
	case "1.3", "13":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", v)
	}
}

func normalizeProtocol(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "", "default":
		return ProtocolAuto
	case "http1", "http/1.1", "1.1":
		return ProtocolHTTP1
	case "http2", "http/2", "2":
		return ProtocolHTTP2
	case "http3", "http/3", "3", "quic":
		return ProtocolHTTP3
	}
	return p
}
