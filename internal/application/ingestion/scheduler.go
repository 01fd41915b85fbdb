package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/ingest"
	"github.com/jhoicas/authors-report/pkg/logger"
)

// LockKey clave del lock compartido entre réplicas.
const LockKey = "authors-report:sync"

// Runner una pasada de sincronización.
type Runner interface {
	Run(ctx context.Context) (ingest.Stats, error)
}

// SchedulerConfig tiempos del planificador.
type SchedulerConfig struct {
	Interval time.Duration
	Timeout  time.Duration // por pasada; <= 0 sin límite
	LockTTL  time.Duration
}

// Scheduler ejecuta el Runner al arrancar y después a intervalo fijo.
// Los errores se registran y se espera al siguiente tick.
type Scheduler struct {
	runner Runner
	locker ports.Locker
	cfg    SchedulerConfig
	log    *logger.Logger
}

// NewScheduler crea el planificador. locker puede ser nil.
func NewScheduler(runner Runner, locker ports.Locker, cfg SchedulerConfig, log *logger.Logger) *Scheduler {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.Interval
	}
	return &Scheduler{runner: runner, locker: locker, cfg: cfg, log: log}
}

// Start bloquea hasta que ctx se cancela.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.cfg.Interval).Msg("sync: planificador iniciado")

	s.Tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sync: planificador detenido")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick una pasada protegida por el lock. Devuelve false si no se ejecutó o falló.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, LockKey, s.cfg.LockTTL)
		if errors.Is(err, ports.ErrLockNotObtained) {
			s.log.Debug().Msg("sync: otra instancia está sincronizando")
			return false
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("sync: no se pudo obtener el lock")
			return false
		}
		defer func() {
			// ctx puede estar cancelado al apagar; el lock se libera igualmente.
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn().Err(err).Msg("sync: liberar lock")
			}
		}()
	}

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	stats, err := s.runner.Run(runCtx)
	if err != nil {
		s.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("sync: falló")
		return false
	}
	s.log.Info().
		Int("sales", stats.Sales).
		Int("accepted", stats.Accepted).
		Int("skipped", stats.Skipped).
		Int("records", stats.Records).
		Dur("elapsed", time.Since(start)).
		Msg("sync: completado")
	return true
}
