// Package jobs schedules the recurring maintenance work: the expired
// temp-image sweep runs hourly in addition to the manual cleanup route.
package jobs

import (
	"github.com/robfig/cron/v3"

	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// Sweeper runs the temp-image expiry sweep on a cron schedule.
type Sweeper struct {
	images service.ImageService
	cron   *cron.Cron
}

// NewSweeper creates a Sweeper over the image service.
func NewSweeper(images service.ImageService) *Sweeper {
	return &Sweeper{images: images, cron: cron.New()}
}

// Start schedules the hourly sweep and runs the scheduler in the
// background.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc("@hourly", s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) run() {
	removed, err := s.images.SweepExpiredTemp(service.DefaultTempMaxAge)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("scheduled temp image sweep")
		return
	}
	middleware.AddTempImagesSwept(removed)
	if removed > 0 {
		logger.GetLogger().Info().Int("removed", removed).Msg("expired temp images swept")
	}
}
