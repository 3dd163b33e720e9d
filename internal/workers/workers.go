package workers

import (
	"context"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker the server runs. The provided
// context bounds the lifetime of all of them; cancelling it stops the pack.
func NewWorkers(ctx context.Context, repositories *store.Repositories, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewFinalizationSweeper(ctx, repositories.AccountRepository, cfg, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
