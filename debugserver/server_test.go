package debugserver

import (
	"net/http/httptest"
	"testing"

	"mapengine/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAuthWhenApiKeySet(t *testing.T) {
	s := New(server.Config{ApiKey: "secret"}, &fakeScenes{}, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/debug/scene", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("GET", "/debug/scene", nil)
	req.Header.Set("X-Api-Key", "secret")
	resp, err = s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestNew_OpenWhenApiKeyEmpty(t *testing.T) {
	s := New(server.Config{}, &fakeScenes{}, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/debug/scene", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestNew_SwaggerRouteNeverRequiresAuth(t *testing.T) {
	s := New(server.Config{ApiKey: "secret"}, &fakeScenes{}, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.NotEqual(t, 401, resp.StatusCode)
}
