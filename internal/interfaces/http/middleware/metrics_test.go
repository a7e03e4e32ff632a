package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method, path string
	status       int
}

type fakeRecorder struct{ seen []observation }

func (f *fakeRecorder) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	f.seen = append(f.seen, observation{method, path, status})
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	rec := &fakeRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/api/v1/classifications/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/api/v1/classifications", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/classifications/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/classifications", nil))

	require.Len(t, rec.seen, 3)
	assert.Equal(t, observation{http.MethodGet, "/api/v1/classifications/{id}", http.StatusNotFound}, rec.seen[0])
	assert.Equal(t, rec.seen[0], rec.seen[1])
	assert.Equal(t, observation{http.MethodPost, "/api/v1/classifications", http.StatusOK}, rec.seen[2])
}

//Personal.AI order the ending
