package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"color-engine/config"
	"color-engine/entities"
	"color-engine/repository"
	"color-engine/service"
	"color-engine/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every message written to it.
type fakeConn struct {
	mu       sync.Mutex
	messages []map[string]interface{}
	closed   bool
	fail     bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	var msg map[string]interface{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m["type"].(string))
	}
	return out
}

func (f *fakeConn) last(msgType string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i]["type"] == msgType {
			return f.messages[i]
		}
	}
	return nil
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = nil
}

func newTestHub(t *testing.T) (*Hub, *service.Service) {
	t.Helper()
	settings := config.DefaultSettings()
	settings.StartCoinsMin = 5
	settings.StartCoinsMax = 5
	def := entities.CardDefinition{Name: "Wheat Field", Color: entities.ColorBlue, Effect: "GET 2", Cost: 3, Weight: 10}
	def.Program, _ = entities.ParseEffect(def.Effect)
	svc := service.NewService(settings, []entities.CardDefinition{def}, service.Options{
		Seed:  7,
		Rooms: repository.NewMemoryStore(),
	})
	return NewHub(svc, utils.NewTokens("test-secret", time.Hour), nil), svc
}

func lobby(t *testing.T, h *Hub, svc *service.Service) (string, *fakeConn, *fakeConn) {
	t.Helper()
	code, err := svc.CreateRoom(context.Background(), "Ann")
	require.NoError(t, err)
	_, err = svc.JoinRoom(context.Background(), code, "Bob")
	require.NoError(t, err)
	ann, bob := &fakeConn{}, &fakeConn{}
	h.Connect(code, "Ann", ann)
	h.Connect(code, "Bob", bob)
	return code, ann, bob
}

func TestConnectBroadcastsPlayerList(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, bob := lobby(t, h, svc)

	msg := ann.last(MsgPlayerList)
	require.NotNil(t, msg)
	payload := msg["payload"].(map[string]interface{})
	assert.Equal(t, "Ann", payload["host"])
	assert.Len(t, payload["players"], 2)
	assert.Contains(t, bob.types(), MsgPlayerList)
	assert.Equal(t, 0, len(h.Presence("other")))
	assert.Len(t, h.Presence(code), 2)
	assert.Equal(t, 2, h.OnlineCount())
}

func TestStartAndPlayOverDispatch(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, bob := lobby(t, h, svc)

	h.Dispatch(bob, code, "Bob", []byte(`{"type":"start_game"}`))
	assert.Equal(t, MsgError, bob.types()[len(bob.types())-1], "only the host can start")
	assert.Nil(t, ann.last(MsgUpdateTable))

	h.Dispatch(ann, code, "Ann", []byte(`{"type":"start_game"}`))
	table := bob.last(MsgUpdateTable)
	require.NotNil(t, table)
	snap := table["payload"].(map[string]interface{})
	assert.Equal(t, "Ann", snap["currentPlayer"])
	market := snap["market"].([]interface{})
	cardID := market[0].(map[string]interface{})["id"].(string)

	ann.reset()
	bob.reset()
	h.Dispatch(bob, code, "Bob", []byte(`{"type":"buy_card","cardId":"`+cardID+`"}`))
	assert.Equal(t, []string{MsgError}, bob.types(), "rejections reach the requester only")
	assert.Empty(t, ann.types())
	bob.reset()

	h.Dispatch(ann, code, "Ann", []byte(`{"type":"buy_card","cardId":"`+cardID+`"}`))
	assert.Equal(t, []string{MsgUpdateTable}, ann.types())
	assert.Equal(t, []string{MsgUpdateTable}, bob.types())

	require.NoError(t, svc.Registry().WithRoom(code, func(r *service.Room) error {
		r.State.ActiveColor = entities.ColorBlue
		r.State.Player("Ann").Coins = 99
		return nil
	}))
	ann.reset()
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"activate_card","cardId":"`+cardID+`"}`))
	assert.Equal(t, []string{MsgShowMessage, MsgUpdateTable, MsgGameOver}, ann.types())
	over := bob.last(MsgGameOver)
	require.NotNil(t, over)
	assert.Equal(t, "Ann", over["payload"].(map[string]interface{})["winner"])

	shown := ann.last(MsgShowMessage)["payload"].(map[string]interface{})
	assert.Equal(t, string(entities.LogKindGold), shown["kind"])

	ann.reset()
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"get_log","offset":"0"}`))
	logMsg := ann.last(MsgGameLog)
	require.NotNil(t, logMsg)
	assert.Len(t, logMsg["payload"].(map[string]interface{})["entries"], 1)
}

func TestDispatchRejectsBadMessages(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, _ := lobby(t, h, svc)
	ann.reset()

	h.Dispatch(ann, code, "Ann", []byte(`not json`))
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"dance"}`))
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"end_turn"}`))

	assert.Equal(t, []string{MsgError, MsgError, MsgError}, ann.types())
}

func TestInitViewBeforeAndAfterStart(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, _ := lobby(t, h, svc)

	ann.reset()
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"init_view"}`))
	assert.Equal(t, []string{MsgPlayerList}, ann.types())

	_, err := svc.StartGame(context.Background(), code, "Ann")
	require.NoError(t, err)
	ann.reset()
	h.Dispatch(ann, code, "Ann", []byte(`{"type":"init_view"}`))
	assert.Equal(t, []string{MsgUpdateTable}, ann.types())
}

func TestDisconnectKeepsPlayerAndReconnectSwaps(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, bob := lobby(t, h, svc)
	_, err := svc.StartGame(context.Background(), code, "Ann")
	require.NoError(t, err)

	bob.reset()
	h.Disconnect(code, "Ann", ann)
	assert.Contains(t, bob.types(), MsgPlayerDisconnected)
	assert.Equal(t, "Ann", bob.last(MsgPlayerDisconnected)["payload"].(map[string]interface{})["playerId"])
	assert.Equal(t, 1, h.OnlineCount())

	snap, ok := svc.GetTableSnapshot(code)
	require.True(t, ok)
	assert.Len(t, snap.Players, 2, "a disconnect never removes the player")

	// a stale connection closing later changes nothing
	bob.reset()
	h.Disconnect(code, "Ann", ann)
	assert.Empty(t, bob.types())

	again := &fakeConn{}
	h.Connect(code, "Ann", again)
	assert.Contains(t, again.types(), MsgUpdateTable)
	assert.Equal(t, 2, h.OnlineCount())
	assert.Len(t, h.Presence(code), 2)
}

func TestBroadcastFailureTakesConnectionOffline(t *testing.T) {
	h, svc := newTestHub(t)
	code, ann, bob := lobby(t, h, svc)

	bob.fail = true
	h.Broadcast(code, MsgShowMessage, entities.LogEntry{Message: "hello", Kind: entities.LogKindInfo})
	assert.True(t, bob.closed)
	assert.Equal(t, "hello", ann.last(MsgShowMessage)["payload"].(map[string]interface{})["message"])
	assert.Equal(t, 1, h.OnlineCount())

	h.CloseRoom(code)
	assert.True(t, ann.closed)
	assert.Empty(t, h.Presence(code))

	// the closed connection's read loop ends afterwards
	h.Disconnect(code, "Ann", ann)
	h.mu.Lock()
	_, found := h.rooms[code]
	h.mu.Unlock()
	assert.False(t, found)
}
