package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressNotifierBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	n := NewProgressNotifier(logger)
	r := gin.New()
	r.GET("/stream", n.Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration races the broadcast; give the handler a moment.
	require.Eventually(t, func() bool {
		n.mu.RLock()
		defer n.mu.RUnlock()
		return len(n.clients) == 1
	}, time.Second, 10*time.Millisecond)

	n.Broadcast("req-1", "search", "searching 5 candidates")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "progress", ev.Type)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, "search", ev.Stage)
}

func TestProgressNotifierLastEvent(t *testing.T) {
	n := NewProgressNotifier(nil)
	require.Nil(t, n.LastEvent())

	n.Broadcast("req-1", "resolve", "resolving product title")
	n.Broadcast("req-1", "rank", "ranking alternatives")

	last := n.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, "rank", last.Stage)
}
