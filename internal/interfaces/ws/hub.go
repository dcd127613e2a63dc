package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ stock.EventPublisher = (*Hub)(nil)

const (
	broadcastBuffer = 256
	clientBuffer    = 16
	writeTimeout    = 10 * time.Second
)

// Conn lo mínimo que el hub necesita de una conexión; *websocket.Conn lo cumple.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// client cola de salida propia de cada conexión; la escribe su goroutine.
type client struct {
	conn Conn
	send chan []byte
}

// Hub mantiene los clientes conectados y difunde los eventos stock_update.
// Un cliente que no consume su cola se desconecta sin frenar al resto.
type Hub struct {
	clients    map[Conn]*client
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *logger.Logger
}

// NewHub construye el hub; hay que arrancar Run en una goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Conn]*client),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run atiende registros y difusiones hasta que ctx se cancela; al salir cierra los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn, c := range h.clients {
				h.drop(conn, c)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
			h.mutex.Lock()
			h.clients[conn] = c
			n := len(h.clients)
			h.mutex.Unlock()
			go h.writeLoop(c)
			h.log.Debug().Int("clients", n).Msg("ws: cliente conectado")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if c, ok := h.clients[conn]; ok {
				h.drop(conn, c)
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn, c := range h.clients {
				select {
				case c.send <- message:
				default:
					h.drop(conn, c)
					h.log.Warn().Msg("ws: cliente lento desconectado")
				}
			}
			h.mutex.Unlock()
		}
	}
}

// drop retira y cierra el cliente. Requiere h.mutex tomado.
func (h *Hub) drop(conn Conn, c *client) {
	delete(h.clients, conn)
	close(c.send)
	_ = conn.Close()
}

// writeLoop escribe la cola del cliente hasta que el hub la cierra o falla una escritura.
func (h *Hub) writeLoop(c *client) {
	for message := range c.send {
		if d, ok := c.conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debug().Err(err).Msg("ws: escritura fallida, cliente retirado")
			h.Unregister(c.conn)
			return
		}
	}
}

// Register agrega un cliente. Con el hub detenido la conexión se cierra.
func (h *Hub) Register(conn Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister retira y cierra un cliente.
func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish encola el evento sin bloquear; si el buffer está lleno el evento se descarta.
func (h *Hub) Publish(ev stock.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws: serializar evento")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("action", ev.Action).Str("product_id", ev.ProductID).Msg("ws: buffer lleno, evento descartado")
	}
}

// Handler atiende una conexión websocket hasta que el cliente se desconecta.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}
