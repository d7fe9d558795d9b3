package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping/internal/core"
)

func TestDecode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		resp := &Response{StatusCode: 200, Body: []byte(`{"code":200,"message":"success","data":{"id":7,"username":"ann","createdAt":"2024-01-01T00:00:00"}}`)}
		u, err := Decode[core.User](resp)
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, "ann", u.Username)
	})

	t.Run("envelope error on 200", func(t *testing.T) {
		resp := &Response{StatusCode: 200, Body: []byte(`{"code":401,"message":"Invalid username or password"}`)}
		_, err := Decode[core.User](resp)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid username or password", apiErr.Message)
	})

	t.Run("http error without envelope", func(t *testing.T) {
		resp := &Response{StatusCode: http.StatusBadGateway, Body: []byte(`<html>bad gateway</html>`)}
		_, err := Decode[[]core.Category](resp)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "Bad Gateway")
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := &Response{StatusCode: 200, Body: []byte(`{"code":`)}
		_, err := Decode[[]core.Record](resp)
		require.Error(t, err)
		assert.False(t, IsUnauthorized(err))
	})

	t.Run("empty body", func(t *testing.T) {
		require.NoError(t, Check(&Response{StatusCode: http.StatusNoContent}))
	})
}
