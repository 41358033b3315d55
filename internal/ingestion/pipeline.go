package ingestion

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"imobiliaria/server/internal/extraction"
	"imobiliaria/server/internal/models"
)

// Store is the durable keyed storage the pipeline persists to. SaveProperty
// must atomically combine the latest-wins field replacement with the append
// of the new snapshot: concurrent saves for the same id may race on the
// replaced fields but must never lose a snapshot.
type Store interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	GenerateID() string
	SaveProperty(ctx context.Context, prop *models.Property, snapshot *models.PropertySnapshot) error
}

// TokenVerifier decides whether a bearer token authorizes ingestion.
type TokenVerifier interface {
	Verify(token string) error
}

// StaticVerifier accepts only the configured shared secret.
type StaticVerifier struct {
	Token string
}

func (v StaticVerifier) Verify(token string) error {
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(v.Token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// PresenceVerifier accepts any non-empty token. This mirrors the original
// deployment's incomplete policy and is only used when no ingest token is
// configured; main logs a warning when it is in effect.
type PresenceVerifier struct{}

func (PresenceVerifier) Verify(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthorized
	}
	return nil
}

// Result is the successful outcome of one ingestion.
type Result struct {
	PropertyID string `json:"propertyId"`
	Message    string `json:"message"`
}

// Pipeline orchestrates one ingestion: authorize, build the prompt, invoke
// the extraction model, validate, reconcile against the stored record and
// persist. Per call it performs exactly one model invocation, one store read
// and one store write.
type Pipeline struct {
	store     Store
	extractor extraction.Extractor
	verifier  TokenVerifier
	logger    *logrus.Logger
	now       func() time.Time
}

func NewPipeline(store Store, extractor extraction.Extractor, verifier TokenVerifier, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Pipeline{
		store:     store,
		extractor: extractor,
		verifier:  verifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest runs the full pipeline for one raw payload.
func (p *Pipeline) Ingest(ctx context.Context, payload any, token string) (*Result, error) {
	if err := p.verifier.Verify(token); err != nil {
		return nil, err
	}

	prompt, err := extraction.BuildPrompt(payload)
	if err != nil {
		return nil, err
	}

	raw, err := p.extractor.Extract(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction model: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrExtractionEmpty
	}

	incoming, err := extraction.ParseProperty(raw, p.now())
	if err != nil {
		// Log the raw response so malformed extractions can be diagnosed;
		// retrying an unchanged prompt is unlikely to self-correct, so the
		// error is surfaced instead.
		p.logger.WithError(err).WithField("raw_response", raw).Error("Extraction failed validation")
		return nil, err
	}

	id := incoming.ID
	if id == "" {
		id = p.store.GenerateID()
	}
	incoming.ID = id
	for i := range incoming.Snapshots {
		incoming.Snapshots[i].PropertyID = id
	}

	existing, err := p.store.GetProperty(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}

	created := existing == nil
	merged := Reconcile(existing, incoming)
	snapshot := merged.Snapshots[len(merged.Snapshots)-1]

	if err := p.store.SaveProperty(ctx, merged, &snapshot); err != nil {
		return nil, &StoreError{Op: "write", Err: err}
	}

	p.logger.WithFields(logrus.Fields{
		"property_id": merged.ID,
		"title":       merged.BasicInfo.Title,
		"created":     created,
		"snapshots":   len(merged.Snapshots),
	}).Info("Property ingested")

	message := "Property updated with a new market snapshot"
	if created {
		message = "Property analyzed and saved"
	}
	return &Result{PropertyID: merged.ID, Message: message}, nil
}
