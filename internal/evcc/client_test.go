package evcc_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ingm4r/evcc-trmnl-integration/internal/evcc"
	"github.com/ingm4r/evcc-trmnl-integration/internal/test"
)

func TestClient_FetchState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		serverHandler    http.Handler
		forceServerError bool
		want             string
		wantErr          bool
	}{
		{
			name: "successful call to evcc API",
			serverHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/state", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(test.StateDocument))
			}),
			want: test.StateDocument,
		},
		{
			name: "response code != 200",
			serverHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}),
			wantErr: true,
		},
		{
			name: "malformed JSON body",
			serverHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"result": `))
			}),
			wantErr: true,
		},
		{
			name:             "http client error",
			forceServerError: true,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := httptest.NewServer(tt.serverHandler)
			t.Cleanup(func() {
				s.Close()
			})

			if tt.forceServerError {
				s.Close()
			}

			httpClient := &http.Client{Timeout: 3 * time.Second}
			c := evcc.NewHTTPClient(httpClient, s.URL)

			got, err := c.FetchState()
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
