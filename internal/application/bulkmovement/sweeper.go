package bulkmovement

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// Sweeper promueve periódicamente a expired los movimientos pending cuyo
// token venció. Es un mecanismo de liveness: la corrección no depende de él
// porque el motor de confirmación hace el mismo chequeo de forma perezosa.
type Sweeper struct {
	bulkRepo repository.BulkMovementRepository
	log      *logger.Logger
}

// NewSweeper construye el sweeper.
func NewSweeper(bulkRepo repository.BulkMovementRepository, log *logger.Logger) *Sweeper {
	return &Sweeper{bulkRepo: bulkRepo, log: log}
}

// SweepExpired ejecuta una pasada y devuelve cuántos movimientos expiró.
// Idempotente: repetir la pasada sobre movimientos ya expirados o
// confirmados no cambia nada ni es un error.
func (s *Sweeper) SweepExpired(ctx context.Context) (int, error) {
	count, err := s.bulkRepo.MarkExpiredBefore(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info().Int("expired", count).Msg("movimientos pending promovidos a expired")
	}
	return count, nil
}

// Run ejecuta pasadas cada interval hasta que ctx se cancele. Pensado para
// correr en una goroutine desde main.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.log.Error().Err(err).Msg("pasada del sweeper de expiración")
			}
		}
	}
}
