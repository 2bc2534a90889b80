package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	DefaultLowStockEvery = 30
	DefaultPurgeAt       = "03:00"
	jobTimeout           = 2 * time.Minute
)

// LowStockChecker is satisfied by service.InventoryService.
type LowStockChecker interface {
	CheckLowStock(ctx context.Context) (int, error)
}

// Purger removes expired rows and reports how many went.
type Purger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Config struct {
	LowStockEveryMinutes int
	PurgeAt              string
}

// Scheduler runs the periodic back-office jobs: the low-stock sweep and the
// nightly purge of expired idempotency keys and password reset tokens.
type Scheduler struct {
	cron    *gocron.Scheduler
	checker LowStockChecker
	purgers map[string]Purger
}

func New(cfg Config, checker LowStockChecker, purgers map[string]Purger) (*Scheduler, error) {
	if cfg.LowStockEveryMinutes <= 0 {
		cfg.LowStockEveryMinutes = DefaultLowStockEvery
	}
	if cfg.PurgeAt == "" {
		cfg.PurgeAt = DefaultPurgeAt
	}

	s := &Scheduler{
		cron:    gocron.NewScheduler(time.UTC),
		checker: checker,
		purgers: purgers,
	}
	s.cron.SingletonModeAll()

	if checker != nil {
		if _, err := s.cron.Every(cfg.LowStockEveryMinutes).Minutes().Tag("low-stock").Do(s.runLowStock); err != nil {
			return nil, err
		}
	}
	if len(purgers) > 0 {
		if _, err := s.cron.Every(1).Day().At(cfg.PurgeAt).Tag("purge").Do(s.runPurge); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start runs the jobs in the background. Interval jobs fire once immediately.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	log.Printf("Scheduler started with %d jobs", len(s.cron.Jobs()))
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) JobCount() int {
	return len(s.cron.Jobs())
}

func (s *Scheduler) runLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.CheckLowStock(ctx); err != nil {
		log.Printf("low stock check failed: %v", err)
	}
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.Purge(ctx)
}

// CheckLowStock runs the sweep once and returns the number of low items.
func (s *Scheduler) CheckLowStock(ctx context.Context) (int, error) {
	n, err := s.checker.CheckLowStock(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("low stock: %d ingredient(s) at or below threshold", n)
	}
	return n, nil
}

// Purge runs every purger once. A failing purger does not stop the others.
func (s *Scheduler) Purge(ctx context.Context) map[string]int64 {
	purged := make(map[string]int64, len(s.purgers))
	for name, p := range s.purgers {
		n, err := p.DeleteExpired(ctx)
		if err != nil {
			log.Printf("purge %s failed: %v", name, err)
			continue
		}
		purged[name] = n
		if n > 0 {
			log.Printf("purged %d expired %s", n, name)
		}
	}
	return purged
}
