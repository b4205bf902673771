package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_ExposeHeadersOnActualRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "http://storefront.example")

	rec := serveCORS(CORSConfig{
		ExposeHeaders: []string{"X-Cart-Token", "X-Request-ID"},
	}, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	// The storefront reads the minted cart token off every response; without
	// the expose header the browser hides it from cross-origin scripts.
	assert.Equal(t, "X-Cart-Token, X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_PreflightAllowsConfiguredHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/cart/items", nil)
	req.Header.Set("Origin", "http://storefront.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	rec := serveCORS(CORSConfig{
		AllowHeaders: []string{"Content-Type", "X-Cart-Token"},
		MaxAge:       86400,
	}, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Content-Type, X-Cart-Token", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example")

	rec := serveCORS(CORSConfig{
		AllowOrigins:  []string{"http://storefront.example"},
		ExposeHeaders: []string{"X-Cart-Token"},
	}, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_CredentialsEchoesMatchedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "HTTP://Storefront.Example")

	rec := serveCORS(CORSConfig{
		AllowOrigins:     []string{"http://storefront.example"},
		AllowCredentials: true,
	}, req)

	assert.Equal(t, "http://storefront.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
