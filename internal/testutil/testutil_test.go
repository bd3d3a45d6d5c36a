package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockWebSocketConn(t *testing.T) {
	conn := NewMockWebSocketConn()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "progress", "accepted": 3}))
	assert.Equal(t, 1, conn.MessageCount())

	msg := WaitForMessage(conn, time.Second)
	require.NotNil(t, msg)
	assert.Equal(t, "progress", msg["type"])
	assert.Equal(t, float64(3), msg["accepted"])

	require.NoError(t, conn.Close())
	assert.True(t, conn.IsClosed)
	// Closing twice must not panic.
	require.NoError(t, conn.Close())

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestMockS3Client(t *testing.T) {
	client := NewMockS3Client()

	require.NoError(t, client.PutObject("a/1", []byte("x")))
	require.NoError(t, client.PutObject("a/2", []byte("y")))
	require.NoError(t, client.PutObject("b/1", []byte("z")))

	data, err := client.GetObject("a/1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	_, err = client.GetObject("missing")
	assert.Error(t, err)

	keys, err := client.ListObjects("a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, keys)
}

func TestNewTestContextWithJSON(t *testing.T) {
	tc := NewTestContextWithJSON(http.MethodPost, "/x", map[string]interface{}{"k": "v"})

	assert.Equal(t, "application/json", tc.Request.Header.Get("Content-Type"))

	var bound map[string]interface{}
	require.NoError(t, tc.Context.Bind(&bound))
	assert.Equal(t, "v", bound["k"])
}

func TestWaitFor(t *testing.T) {
	n := 0
	err := WaitFor(time.Second, time.Millisecond, func() bool {
		n++
		return n >= 3
	})
	assert.NoError(t, err)

	err = WaitFor(10*time.Millisecond, time.Millisecond, func() bool { return false })
	assert.Error(t, err)
}
