package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCodecRoundTrip(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Custom", "value")
	body := []byte(`{"reservations":[]}`)

	encoded, err := encodePayload(http.StatusOK, header, body)
	require.NoError(t, err)

	status, gotHeader, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "value", gotHeader.Get("X-Custom"))
	assert.Equal(t, body, gotBody)
}

func TestPayloadCodecEmptyBody(t *testing.T) {
	encoded, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, []byte("not a payload")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}
