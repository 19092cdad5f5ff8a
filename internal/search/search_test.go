package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r)
}

func newFake(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeES) {
	t.Helper()

	fake := &fakeES{handler: h}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL, Index: "products_test"})
	require.NoError(t, err)
	return c, fake
}

func TestNew_RequiresURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	c, fake := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7},"hits":[{"_source":{"id":4}},{"_source":{"id":2}}]}}`)
	})

	ids, total, err := c.Search(context.Background(), "air max", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uint{4, 2}, ids)

	require.Len(t, fake.requests, 1)
	assert.True(t, strings.HasSuffix(fake.requests[0], "/products_test/_search"), fake.requests[0])

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &q))
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "air max", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.EqualValues(t, 2, q["size"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	t.Parallel()

	c, _ := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad"}`)
	})

	_, _, err := c.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestIndexAndDeleteProduct(t *testing.T) {
	t.Parallel()

	c, fake := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	cat := "Running"
	err := c.IndexProduct(context.Background(), models.Product{ID: 9, Name: "Air Max 270", Category: &cat, Price: 150})
	require.NoError(t, err)
	require.NoError(t, c.DeleteProduct(context.Background(), 9))

	require.Len(t, fake.requests, 2)
	assert.Equal(t, "PUT /products_test/_doc/9", fake.requests[0])
	assert.Equal(t, "DELETE /products_test/_doc/9", fake.requests[1])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &doc))
	assert.Equal(t, "Air Max 270", doc["name"])
	assert.Equal(t, "Running", doc["category"])
}

func TestPing(t *testing.T) {
	t.Parallel()

	c, _ := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"}}`)
	})
	require.NoError(t, c.Ping(context.Background()))
}
