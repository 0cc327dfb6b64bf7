package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/errors"
)

type fakeFeeds struct {
	cancelled chan entity.FeedKind
}

func (f *fakeFeeds) Subscribe(ctx context.Context, userID string, kind entity.FeedKind, publish func(entity.FeedView)) error {
	if userID == "no-profile" {
		return errors.NotFound("User", nil)
	}
	go func() {
		publish(entity.FeedView{Kind: kind, Products: []*entity.Product{{ID: "p1", Title: "Bike"}}})
		publish(entity.FeedView{Kind: kind, Products: []*entity.Product{{ID: "p1", Title: "Bike"}}, Stale: true, Error: "offline"})
		<-ctx.Done()
		f.cancelled <- kind
	}()
	return nil
}

type received struct {
	Type string          `json:"type"`
	Feed entity.FeedKind `json:"feed"`
	Data json.RawMessage `json:"data"`
}

func startServer(t *testing.T, userID string) (*Manager, *fakeFeeds, *websocket.Conn) {
	t.Helper()
	feeds := &fakeFeeds{cancelled: make(chan entity.FeedKind, 4)}
	m := NewManager(feeds)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.Serve(conn, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return m, feeds, conn
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg received
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestSubscribeReceivesFeedAndStaleMarker(t *testing.T) {
	_, feeds, conn := startServer(t, "user-1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "trading"}))

	msg := readUntil(t, conn, MessageTypeFeed)
	assert.Equal(t, entity.FeedTrading, msg.Feed)
	var view entity.FeedView
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Bike", view.Products[0].Title)

	msg = readUntil(t, conn, MessageTypeFeedError)
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	assert.True(t, view.Stale)
	assert.Len(t, view.Products, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "unsubscribe", "feed": "trading"}))
	select {
	case kind := <-feeds.cancelled:
		assert.Equal(t, entity.FeedTrading, kind)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not cancelled on unsubscribe")
	}
}

func TestSubscribedAckPrecedesFeed(t *testing.T) {
	_, _, conn := startServer(t, "user-1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "trading"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first received
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageTypeSubscribed, first.Type)
	assert.Equal(t, entity.FeedTrading, first.Feed)

	msg := readUntil(t, conn, MessageTypeFeed)
	assert.Equal(t, entity.FeedTrading, msg.Feed)
}

func TestDisconnectCancelsSubscriptions(t *testing.T) {
	m, feeds, conn := startServer(t, "user-1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "browse"}))
	readUntil(t, conn, MessageTypeFeed)
	assert.Equal(t, 1, m.ClientCount())

	conn.Close()

	select {
	case kind := <-feeds.cancelled:
		assert.Equal(t, entity.FeedBrowse, kind)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not cancelled on disconnect")
	}
	assert.Eventually(t, func() bool { return m.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPingAndBadMessages(t *testing.T) {
	_, _, conn := startServer(t, "user-1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	readUntil(t, conn, MessageTypePong)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readUntil(t, conn, MessageTypeError)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, errors.CodeBadRequest, data.Code)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "everything"}))
	readUntil(t, conn, MessageTypeError)
}

func TestSubscribeSetupErrorIsReported(t *testing.T) {
	_, _, conn := startServer(t, "no-profile")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "trading"}))
	msg := readUntil(t, conn, MessageTypeError)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, errors.CodeNotFound, data.Code)
}
