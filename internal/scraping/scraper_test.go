package scraping

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imobiliaria/server/internal/models"
	"imobiliaria/server/internal/queue"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestExtractVisibleText(t *testing.T) {
	page := `<html>
	  <head>
	    <title>Lancamento Cabo Branco</title>
	    <style>body { color: red; }</style>
	    <script>var tracking = "noise";</script>
	  </head>
	  <body>
	    <h1>Edificio   Mar Azul</h1>
	    <p>Apto 3 quartos, 120m2, beira-mar.</p>
	    <noscript>Enable JavaScript</noscript>
	  </body>
	</html>`

	text, err := ExtractVisibleText(strings.NewReader(page))
	require.NoError(t, err)

	assert.Contains(t, text, "Lancamento Cabo Branco")
	assert.Contains(t, text, "Edificio Mar Azul")
	assert.Contains(t, text, "Apto 3 quartos, 120m2, beira-mar.")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "Enable JavaScript")
}

func TestExtractVisibleText_EmptyDocument(t *testing.T) {
	text, err := ExtractVisibleText(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestScrapeURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`<html><body><p>Apto em Tambau, R$ 600.000</p></body></html>`))
	}))
	defer server.Close()

	q := queue.NewListingQueue(10, quietLogger())
	s := NewScraper(q, quietLogger())

	// A failing page is skipped, the rest of the batch still goes through.
	err := s.ScrapeURLs(context.Background(), []string{
		server.URL + "/listing",
		server.URL + "/missing",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestScrapeURLs_AllPagesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	q := queue.NewListingQueue(10, quietLogger())
	s := NewScraper(q, quietLogger())

	err := s.ScrapeURLs(context.Background(), []string{server.URL})
	assert.Error(t, err)
	assert.Equal(t, 0, q.Len())
}

func TestScrapeURLs_ListingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Residencial Tambau Prime</h1></body></html>`))
	}))
	defer server.Close()

	q := queue.NewListingQueue(10, quietLogger())
	batches := make(chan []*models.RawListing, 1)
	q.Subscribe(func(batch []*models.RawListing) error {
		batches <- batch
		return nil
	})

	s := NewScraper(q, quietLogger())
	require.NoError(t, s.ScrapeURLs(context.Background(), []string{server.URL + "/tambau"}))
	q.Start()

	select {
	case captured := <-batches:
		require.Len(t, captured, 1)
		assert.Equal(t, "scraper", captured[0].Source)
		assert.Equal(t, server.URL+"/tambau", captured[0].URL)
		assert.Contains(t, captured[0].RawText, "Residencial Tambau Prime")
	case <-time.After(time.Second):
		t.Fatal("queued batch was never delivered")
	}
}
