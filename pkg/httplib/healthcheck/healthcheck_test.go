package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name       string
		checks     map[string]Checker
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no checks",
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   "{}\n",
		},
		{
			name: "all healthy",
			checks: map[string]Checker{
				"redis": func(ctx context.Context) error { return nil },
			},
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   `{"redis":"ok"}` + "\n",
		},
		{
			name: "one failing",
			checks: map[string]Checker{
				"postgres": func(ctx context.Context) error { return errors.New("down") },
			},
			path:       "/health",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"postgres":"down"}` + "\n",
		},
		{
			name:       "other path passes through",
			path:       "/sequence",
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)

			HealthCheck{Checks: tc.checks}.Handler(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}
