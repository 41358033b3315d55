package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imobiliaria/server/internal/database"
	"imobiliaria/server/internal/extraction"
	"imobiliaria/server/internal/geocoding"
	"imobiliaria/server/internal/ingestion"
	"imobiliaria/server/internal/scraping"
	"imobiliaria/server/internal/telegram"
)

// Ingester is the slice of the ingestion pipeline the handlers need.
type Ingester interface {
	Ingest(ctx context.Context, payload any, token string) (*ingestion.Result, error)
}

type Handler struct {
	db       *database.Database
	pipeline Ingester
	logger   *logrus.Logger
	geocoder *geocoding.Geocoder
	scraper  *scraping.Scraper
	notifier *telegram.Service
}

func NewHandler(db *database.Database, pipeline Ingester, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:       db,
		pipeline: pipeline,
		logger:   logger,
	}
}

// SetGeocoder wires the geocoder used by the coordinates maintenance endpoint.
func (h *Handler) SetGeocoder(geocoder *geocoding.Geocoder) {
	h.geocoder = geocoder
}

// SetScraper wires the scraper triggered by the scrape endpoint.
func (h *Handler) SetScraper(scraper *scraping.Scraper) {
	h.scraper = scraper
}

// SetNotifier wires the optional Telegram notifier.
func (h *Handler) SetNotifier(notifier *telegram.Service) {
	h.notifier = notifier
}

// IngestPropertyData accepts one unstructured listing payload, runs it
// through the extraction pipeline and reports the resolved property id.
func (h *Handler) IngestPropertyData(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read request body")
		c.String(http.StatusBadRequest, "Failed to read request body")
		return
	}

	payload, ok := decodePayload(body)
	if !ok {
		c.String(http.StatusBadRequest, "Payload must be a string or a JSON object")
		return
	}

	result, err := h.pipeline.Ingest(c.Request.Context(), payload, GetBearerToken(c))
	if err != nil {
		h.respondIngestError(c, err)
		return
	}

	if h.notifier != nil {
		go h.notifyIngestion(result.PropertyID)
	}

	c.JSON(http.StatusOK, result)
}

// decodePayload interprets the request body as either a JSON string, a JSON
// object, or plain text. JSON documents of any other shape are rejected.
func decodePayload(body []byte) (any, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		// Not JSON at all: treat the body as raw listing text.
		return string(trimmed), true
	}

	switch v := decoded.(type) {
	case string:
		return v, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func (h *Handler) respondIngestError(c *gin.Context, err error) {
	var validationErr *extraction.ValidationError

	switch {
	case errors.Is(err, ingestion.ErrUnauthorized):
		c.String(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, extraction.ErrInvalidPayload):
		c.String(http.StatusBadRequest, "Payload must be a string or a JSON object")
	case errors.Is(err, ingestion.ErrExtractionEmpty):
		h.logger.Error("Extraction model returned no text")
		c.String(http.StatusInternalServerError, "The extraction model returned no text; the request may be retried")
	case errors.Is(err, extraction.ErrMalformedExtraction), errors.As(err, &validationErr):
		// Details were already logged by the pipeline together with the raw
		// model response.
		c.String(http.StatusInternalServerError, "Extraction did not produce a valid property record")
	default:
		h.logger.WithError(err).Error("Ingestion failed")
		c.String(http.StatusInternalServerError, "Failed to process property data")
	}
}

func (h *Handler) notifyIngestion(propertyID string) {
	prop, err := h.db.GetProperty(context.Background(), propertyID)
	if err != nil || prop == nil {
		return
	}
	if err := h.notifier.NotifyIngestion(prop, len(prop.Snapshots) == 1); err != nil {
		h.logger.WithError(err).Error("Failed to send ingestion notification")
	}
}

// GetAllProperties returns the catalog, optionally filtered by neighborhood.
func (h *Handler) GetAllProperties(c *gin.Context) {
	neighborhood := c.Query("neighborhood")

	properties, err := h.db.GetAllProperties(c.Request.Context(), neighborhood)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// GetProperty returns one property with its snapshot history.
func (h *Handler) GetProperty(c *gin.Context) {
	prop, err := h.db.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	if prop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, prop)
}

// GetPropertySnapshots returns the market history for one property.
func (h *Handler) GetPropertySnapshots(c *gin.Context) {
	snapshots, err := h.db.GetSnapshots(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get snapshots")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get snapshots"})
		return
	}

	c.JSON(http.StatusOK, snapshots)
}

// GetCatalogStats returns aggregate catalog statistics.
func (h *Handler) GetCatalogStats(c *gin.Context) {
	stats, err := h.db.GetCatalogStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get catalog stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get catalog stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateCoordinates backfills missing coordinates for catalog records.
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	if h.geocoder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geocoding is not configured"})
		return
	}

	updated, err := h.db.UpdateMissingCoordinates(c.Request.Context(), h.geocoder)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update coordinates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coordinates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// ScrapeRequest triggers a scrape of the given listing pages.
type ScrapeRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// RunScrape queues the given listing pages for scraping and ingestion.
func (h *Handler) RunScrape(c *gin.Context) {
	if h.scraper == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scraping is not configured"})
		return
	}

	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse scrape request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if err := h.scraper.ScrapeURLs(c.Request.Context(), req.URLs); err != nil {
		h.logger.WithError(err).Error("Failed to run scrape")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scrape listing pages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Listing pages queued for ingestion",
	})
}
