package server_test

import (
	"testing"

	"mapengine/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_RequiresAuth(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"empty key", "", false},
		{"set key", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ApiKey: tt.apiKey}
			assert.Equal(t, tt.want, c.RequiresAuth())
		})
	}
}
