package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"imobiliaria/server/internal/scraping"
)

// Scheduler manages periodic scraping of the configured listing pages.
type Scheduler struct {
	scraper  *scraping.Scraper
	logger   *logrus.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	urls     []string
	interval time.Duration
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler for the given target URLs.
func NewScheduler(scraper *scraping.Scraper, urls []string, interval time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		scraper:  scraper,
		logger:   logger,
		stopChan: make(chan struct{}),
		urls:     urls,
		interval: interval,
	}
}

// Start begins the scheduled scrape runs, including one startup run.
func (s *Scheduler) Start() {
	if len(s.urls) == 0 {
		s.logger.Info("No scrape targets configured, scheduler idle")
		return
	}

	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.logger.Info("Running startup scrape job")
	s.runScrape()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.logger.Info("Starting scheduled scrape job")
			s.runScrape()
		}
	}
}

func (s *Scheduler) runScrape() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.scraper.ScrapeURLs(ctx, s.urls); err != nil {
		s.logger.WithError(err).Error("Scrape job failed")
		return
	}
	s.logger.WithField("targets", len(s.urls)).Info("Scrape job completed")
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
