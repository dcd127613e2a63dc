package assets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Failure describe un asset que no pudo eliminarse. Es informativo: nunca revierte el borrado de datos.
type Failure struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// Purger elimina assets en modo best-effort: intenta todas las referencias (en paralelo acotado),
// aplica un timeout por llamada y devuelve las fallas en lugar de abortar.
type Purger struct {
	store       Store
	timeout     time.Duration
	concurrency int
	log         *logger.Logger
}

// NewPurger construye el purgador. timeout <= 0 usa 10s; concurrency <= 0 usa 4.
func NewPurger(store Store, timeout time.Duration, concurrency int, log *logger.Logger) *Purger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Purger{store: store, timeout: timeout, concurrency: concurrency, log: log}
}

// Purge intenta eliminar cada referencia no vacía y retorna cuando todas fueron intentadas.
func (p *Purger) Purge(ctx context.Context, refs []string) []Failure {
	if p == nil || p.store == nil || len(refs) == 0 {
		return nil
	}
	// Las eliminaciones no dependen de que el request siga abierto.
	ctx = context.WithoutCancel(ctx)

	var (
		mu       sync.Mutex
		failures []Failure
	)
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()
			if err := p.store.Destroy(callCtx, ref); err != nil {
				p.log.Warn().Err(err).Str("ref", ref).Msg("no se pudo eliminar asset")
				mu.Lock()
				failures = append(failures, Failure{Ref: ref, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			p.log.Debug().Str("ref", ref).Msg("asset eliminado")
			return nil
		})
	}
	_ = g.Wait()
	return failures
}
