package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var (
	_ catalog.ProductCache = (*ProductCache)(nil)
	_ stock.ProductCache   = (*ProductCache)(nil)
)

const (
	defaultPrefix = "stock-ledger:product"
	defaultTTL    = 5 * time.Minute
	scanCount     = 200
)

// setIfFresh escribe el producto sólo si la generación global y la del producto
// siguen siendo las que el lector tomó antes de ir a la BD.
var setIfFresh = redis.NewScript(`
local global = redis.call('GET', KEYS[1]) or '0'
local product = redis.call('GET', KEYS[2]) or '0'
if global .. ':' .. product ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[3], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ProductCache caché de lectura de productos sobre Redis.
// Es best-effort: cualquier error de Redis se registra y se trata como miss.
// Un cliente nil deja la caché deshabilitada.
type ProductCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewProductCache construye la caché. prefix y ttl vacíos toman valores por defecto.
func NewProductCache(client *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) *ProductCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductCache{client: client, prefix: prefix, ttl: ttl, log: log}
}

// Key devuelve la clave Redis de un producto.
func (c *ProductCache) Key(id string) string {
	var b strings.Builder
	b.Grow(len(c.prefix) + 1 + len(id))
	b.WriteString(c.prefix)
	b.WriteString(":")
	b.WriteString(id)
	return b.String()
}

func (c *ProductCache) generationKey(id string) string {
	if id == "" {
		return c.prefix + "-gen"
	}
	return c.prefix + "-gen:" + id
}

// Get devuelve el producto cacheado si existe.
func (c *ProductCache) Get(ctx context.Context, id string) (*entity.Product, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("product_id", id).Msg("caché: lectura fallida")
		}
		return nil, false
	}
	var p entity.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn().Err(err).Str("product_id", id).Msg("caché: entrada corrupta")
		return nil, false
	}
	return &p, true
}

// Generation devuelve la generación vigente del producto. false si Redis no responde.
func (c *ProductCache) Generation(ctx context.Context, id string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	vals, err := c.client.MGet(ctx, c.generationKey(""), c.generationKey(id)).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", id).Msg("caché: lectura de generación fallida")
		return "", false
	}
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			s = "0"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ":"), true
}

// Set guarda el producto con el TTL configurado si no hubo invalidaciones desde generation.
func (c *ProductCache) Set(ctx context.Context, p *entity.Product, generation string) {
	if c.client == nil || p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", p.ID).Msg("caché: serializar producto")
		return
	}
	keys := []string{c.generationKey(""), c.generationKey(p.ID), c.Key(p.ID)}
	stored, err := setIfFresh.Run(ctx, c.client, keys, generation, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", p.ID).Msg("caché: escritura fallida")
		return
	}
	if stored == 0 {
		c.log.Debug().Str("product_id", p.ID).Msg("caché: producto invalidado durante la lectura, no se guarda")
	}
}

// Invalidate borra las claves de los productos indicados; sin ids borra todas las del prefijo.
func (c *ProductCache) Invalidate(ctx context.Context, productIDs ...string) {
	if c.client == nil {
		return
	}
	if len(productIDs) == 0 {
		c.flush(ctx)
		return
	}
	keys := make([]string, 0, len(productIDs))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, c.generationKey(id))
			keys = append(keys, c.Key(id))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("caché: invalidación fallida")
	}
}

func (c *ProductCache) flush(ctx context.Context) {
	if err := c.client.Incr(ctx, c.generationKey("")).Err(); err != nil {
		c.log.Warn().Err(err).Msg("caché: incremento de generación fallido")
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.Key("*"), scanCount).Result()
		if err != nil {
			c.log.Warn().Err(err).Msg("caché: scan fallido")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn().Err(err).Msg("caché: borrado masivo fallido")
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// NewClient abre un cliente Redis y verifica la conexión. addr vacío devuelve nil sin error.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
