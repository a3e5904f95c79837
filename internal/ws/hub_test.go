package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHubBroadcastPools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)

	if msg := readMessage(t, conn); msg.Type != TypeConnected {
		t.Fatalf("first message type = %q, want %q", msg.Type, TypeConnected)
	}

	hub.BroadcastPools([]domain.PoolYield{{
		PoolID:         "3",
		PairID:         "0xpair",
		RewardPerBlock: decimal.RequireFromString("0.1"),
	}})

	msg := readMessage(t, conn)
	if msg.Type != TypePools {
		t.Fatalf("broadcast type = %q, want %q", msg.Type, TypePools)
	}
	rows, ok := msg.Data.([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("broadcast data = %#v, want one row", msg.Data)
	}
}

func TestHubReplaysLastListingOnConnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	// Prime the hub before anyone is connected.
	first := dialTestHub(t, hub)
	readMessage(t, first) // connected
	hub.BroadcastPools([]domain.PoolYield{{PoolID: "3"}})
	readMessage(t, first) // pools

	late := dialTestHub(t, hub)
	if msg := readMessage(t, late); msg.Type != TypeConnected {
		t.Fatalf("first message type = %q, want %q", msg.Type, TypeConnected)
	}
	if msg := readMessage(t, late); msg.Type != TypePools {
		t.Fatalf("replay type = %q, want %q", msg.Type, TypePools)
	}
}
