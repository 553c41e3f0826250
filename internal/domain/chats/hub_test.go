package chats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/ports/auth"
)

// revocable autoriza como stubMatches hasta que se revoca la fundación.
type revocable struct {
	revoked atomic.Bool
}

func (r *revocable) AuthorizeParty(ctx context.Context, actor auth.Principal, matchID string) (matches.Match, access.Party, error) {
	owner := "f-1"
	if r.revoked.Load() {
		owner = ""
	}
	party, err := access.MatchParty(actor, "a-1", owner)
	if err != nil {
		return matches.Match{}, "", err
	}
	return matches.Match{ID: matchID, UserID: "a-1", PetID: "p-1"}, party, nil
}

func dialHub(t *testing.T, hub *Hub, matchID string, actor auth.Principal) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, matchID, actor)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return hub.Connected(matchID) >= 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_PublishReachesSubscribersOfMatch(t *testing.T) {
	hub := NewHub(logger.Nop(), nil)
	conn := dialHub(t, hub, "m-1", adopter)

	// otro match: no debe llegar
	hub.Publish(context.Background(), "m-2", Message{SenderID: "x", SenderType: SenderUser, Message: "otro"})
	hub.Publish(context.Background(), "m-1", Message{SenderID: "f-1", SenderType: SenderFoundation, Message: "hola", Timestamp: time.Now()})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.Type != "message" || evt.MatchID != "m-1" || evt.Message.Message != "hola" || evt.Message.SenderType != SenderFoundation {
		t.Fatalf("unexpected event %#v", evt)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub(logger.Nop(), nil)
	conn := dialHub(t, hub, "m-1", adopter)

	conn.Close()
	waitFor(t, func() bool { return hub.Connected("m-1") == 0 })

	// publicar sin suscriptores no bloquea ni falla
	hub.Publish(context.Background(), "m-1", Message{Message: "nadie escucha"})
}

func TestHub_DropsClientsThatStopBeingParty(t *testing.T) {
	parties := &revocable{}
	hub := NewHub(logger.Nop(), parties)

	adopterConn := dialHub(t, hub, "m-1", adopter)
	foundationConn := dialHub(t, hub, "m-1", foundation)
	waitFor(t, func() bool { return hub.Connected("m-1") == 2 })

	// la mascota se borró: la fundación deja de ser parte
	parties.revoked.Store(true)
	hub.Publish(context.Background(), "m-1", Message{SenderID: "a-1", SenderType: SenderUser, Message: "sigo acá"})

	waitFor(t, func() bool { return hub.Connected("m-1") == 1 })

	_ = adopterConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, data, err := adopterConn.ReadMessage(); err != nil || !strings.Contains(string(data), "sigo acá") {
		t.Fatalf("adopter should still receive, got %q err %v", string(data), err)
	}

	_ = foundationConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := foundationConn.ReadMessage(); err == nil {
		t.Fatalf("expected the foundation socket to be closed without the message")
	}
}
