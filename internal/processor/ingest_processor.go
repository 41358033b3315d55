package processor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"imobiliaria/server/config"
	"imobiliaria/server/internal/ingestion"
	"imobiliaria/server/internal/models"
	"imobiliaria/server/internal/queue"
)

// Ingester is the slice of the ingestion pipeline the processor needs.
type Ingester interface {
	Ingest(ctx context.Context, payload any, token string) (*ingestion.Result, error)
}

// IngestProcessor drains the scrape queue through the ingestion pipeline
// with bounded retries per listing. Batches are fanned out to a pool of
// workers so one slow model call does not stall the rest of the batch.
type IngestProcessor struct {
	pipeline  Ingester
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.ListingQueue
	token     string
	work      chan *models.RawListing
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewIngestProcessor creates a new processor instance. The token is the
// shared secret the pipeline expects; scraped listings are ingested with the
// same authorization as external webhook calls.
func NewIngestProcessor(pipeline Ingester, q *queue.ListingQueue, cfg *config.Config, token string, logger *logrus.Logger) *IngestProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &IngestProcessor{
		pipeline: pipeline,
		queue:    q,
		config:   cfg,
		token:    token,
		work:     make(chan *models.RawListing),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start spawns the worker pool, subscribes the processor to the queue and
// begins processing.
func (p *IngestProcessor) Start() {
	workers := p.config.Scraper.WorkerCount
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		p.waitGroup.Add(1)
		go p.worker()
	}
	p.logger.WithField("workers", workers).Info("Started ingest workers")

	p.queue.Subscribe(func(batch []*models.RawListing) error {
		return p.dispatchBatch(batch)
	})
	p.queue.Start()
}

// Stop cancels in-flight ingestions and waits for the workers to finish.
func (p *IngestProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// dispatchBatch hands every listing of a batch to the worker pool.
func (p *IngestProcessor) dispatchBatch(batch []*models.RawListing) error {
	for _, listing := range batch {
		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		case p.work <- listing:
		}
	}
	return nil
}

func (p *IngestProcessor) worker() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case listing := <-p.work:
			p.processListing(listing)
		}
	}
}

func (p *IngestProcessor) processListing(listing *models.RawListing) {
	var err error
	for attempt := 0; attempt <= p.config.Scraper.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying listing ingestion, attempt %d of %d", attempt, p.config.Scraper.MaxRetries)
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(time.Duration(p.config.Scraper.RetryDelay) * time.Second):
			}
		}

		var result *ingestion.Result
		result, err = p.pipeline.Ingest(p.ctx, listing.Payload(), p.token)
		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"url":         listing.URL,
				"property_id": result.PropertyID,
			}).Info("Scraped listing ingested")
			return
		}

		// Validation failures will not improve on retry; give up immediately.
		if !ingestion.Retryable(err) {
			break
		}

		p.logger.WithError(err).WithField("url", listing.URL).Error("Listing ingestion failed")
	}

	p.logger.WithError(err).WithField("url", listing.URL).Error("Dropping listing after repeated failures")
}
