package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/interfaces/ws"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
	fail   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.msgs = append(c.msgs, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// stuckConn bloquea cada escritura hasta que se cierra release.
type stuckConn struct {
	fakeConn
	release chan struct{}
}

func (c *stuckConn) WriteMessage(messageType int, data []byte) error {
	<-c.release
	return c.fakeConn.WriteMessage(messageType, data)
}

func (c *fakeConn) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.msgs...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*ws.Hub, context.CancelFunc) {
	t.Helper()
	h := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func TestHub_DifundeEventoStockUpdate(t *testing.T) {
	h, _ := startHub(t)
	a, b := &fakeConn{}, &fakeConn{}
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	h.Publish(stock.Event{Type: stock.EventTypeStockUpdate, Action: stock.ActionCreated, ProductID: "p1", Quantity: 7, Delta: 7})

	require.Eventually(t, func() bool { return len(a.messages()) == 1 && len(b.messages()) == 1 }, time.Second, 5*time.Millisecond)
	var got map[string]any
	require.NoError(t, json.Unmarshal(a.messages()[0], &got))
	assert.Equal(t, "stock_update", got["type"])
	assert.Equal(t, "movement_created", got["action"])
	assert.Equal(t, "p1", got["product_id"])
	assert.EqualValues(t, 7, got["quantity"])
}

func TestHub_ClienteRotoSeRetira(t *testing.T) {
	h, _ := startHub(t)
	ok, broken := &fakeConn{}, &fakeConn{fail: true}
	h.Register(ok)
	h.Register(broken)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	h.Publish(stock.Event{Type: stock.EventTypeStockUpdate, ProductID: "p1"})

	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
	assert.False(t, ok.isClosed())
}

func TestHub_ClienteLentoNoFrenaAlResto(t *testing.T) {
	h, _ := startHub(t)
	fast := &fakeConn{}
	slow := &stuckConn{release: make(chan struct{})}
	defer close(slow.release)
	h.Register(fast)
	h.Register(slow)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	const total = 40
	for i := 1; i <= total; i++ {
		h.Publish(stock.Event{Type: stock.EventTypeStockUpdate, ProductID: "p1", Quantity: int64(i)})
		require.Eventually(t, func() bool { return len(fast.messages()) == i }, time.Second, time.Millisecond)
	}

	assert.Equal(t, 1, h.Clients())
	assert.True(t, slow.isClosed())
	assert.False(t, fast.isClosed())
}

func TestHub_UnregisterCierraConexion(t *testing.T) {
	h, _ := startHub(t)
	c := &fakeConn{}
	h.Register(c)
	h.Unregister(c)
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, c.isClosed())
}

func TestHub_PublishNoBloqueaSinRun(t *testing.T) {
	h := ws.NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(stock.Event{Type: stock.EventTypeStockUpdate})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueó con el buffer lleno")
	}
}

func TestHub_DetenidoCierraClientes(t *testing.T) {
	h, cancel := startHub(t)
	c := &fakeConn{}
	h.Register(c)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)

	late := &fakeConn{}
	require.Eventually(t, func() bool {
		h.Register(late)
		return late.isClosed()
	}, time.Second, 5*time.Millisecond)
}
