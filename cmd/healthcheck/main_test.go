package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "127.0.0.1:8080"},
		{"bind all", "0.0.0.0:9000", "127.0.0.1:9000"},
		{"port only", ":9000", "127.0.0.1:9000"},
		{"ipv6 bind all", "[::]:9000", "127.0.0.1:9000"},
		{"explicit host", "10.0.0.5:8080", "10.0.0.5:8080"},
		{"garbage", "not-an-addr", "127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.raw))
		})
	}
}
