package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/observa/core/profile"
)

func TestServer_home(t *testing.T) {
	f := setup(t)
	rec := f.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Observa API!", rec.Body.String())
}

func TestServer_metrics(t *testing.T) {
	f := setup(t)
	rec := f.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestViewerMiddleware(t *testing.T) {
	f := setup(t)
	stranger := profile.Profile{ID: "x9"}

	tests := []httpTest{
		{name: "missing profile header", path: "/v1/periods/current", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "profile not authenticated"})},
		{name: "unknown profile", path: "/v1/periods/current", viewer: &stranger, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "profile not authenticated"})},
		{name: "known profile", path: "/v1/periods/current", viewer: &coord1, wantCode: http.StatusOK},
		{name: "trailing slash", path: "/v1/periods/current/", viewer: &coord1, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, f.do(http.MethodGet, tt.path, tt.viewer))
		})
	}
}
