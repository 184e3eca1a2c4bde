package config

import "testing"

func TestNewRedisClientShortAddress(t *testing.T) {
	// Addresses shorter than the URL schemes, including an 8-char non-URL
	// string, must be treated as host:port and never panic.
	for _, addr := range []string{"rediss:/", "r", "", "host:1"} {
		_, err := NewRedisClient(&Config{RedisURL: addr})
		if err == nil {
			t.Errorf("expected connection error for %q", addr)
		}
	}
}
