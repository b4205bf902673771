//go:build integration

package integration

import (
	"math"
	"net/http"
	"strings"
	"testing"
)

func TestCart_EmptyWithoutToken(t *testing.T) {
	resp := doGet(t, "/api/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(cartTokenHeader) == "" {
		t.Fatal("no cart token minted")
	}

	body := decodeJSON[cartResponse](t, resp)
	if len(body.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(body.Items))
	}
	if body.Total != 0 {
		t.Errorf("total: got %v, want 0", body.Total)
	}
}

func TestCart_FullFlow(t *testing.T) {
	// Add two discounted watches. The minted token carries the cart forward.
	resp := doRequest(t, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": "elegance-chrono", "quantity": 2}, "")
	token := resp.Header.Get(cartTokenHeader)
	if token == "" {
		t.Fatal("no cart token minted")
	}

	body := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Items))
	}
	// 450000 with 10% off, twice.
	if want := 810000.0; math.Abs(body.Total-want) > 0.01 {
		t.Errorf("total: got %v, want %v", body.Total, want)
	}

	// Add a second product on the same token.
	resp = doRequest(t, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": "sportive-gt", "quantity": 1}, token)
	body = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Items))
	}
	if want := 1130000.0; math.Abs(body.Total-want) > 0.01 {
		t.Errorf("total: got %v, want %v", body.Total, want)
	}

	// Reload from a fresh request to prove the cart survived.
	resp = doRequest(t, http.MethodGet, "/api/cart", nil, token)
	body = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 2 {
		t.Fatalf("reloaded cart: expected 2 items, got %d", len(body.Items))
	}

	// Drop one line item.
	resp = doRequest(t, http.MethodDelete, "/api/cart/items/sportive-gt", nil, token)
	body = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 1 {
		t.Fatalf("after remove: expected 1 item, got %d", len(body.Items))
	}

	// Clear everything.
	resp = doRequest(t, http.MethodDelete, "/api/cart", nil, token)
	body = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 0 {
		t.Fatalf("after clear: expected empty cart, got %d items", len(body.Items))
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	resp := doPost(t, "/api/cart/items", map[string]any{
		"product_id": "no-such-watch",
		"quantity":   1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	resp := doPost(t, "/api/checkout", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCheckout_HandsOffAndClearsCart(t *testing.T) {
	resp := doRequest(t, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": "midnight-sapphire", "quantity": 1}, "")
	token := resp.Header.Get(cartTokenHeader)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, "/api/checkout", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[checkoutResponse](t, resp)
	resp.Body.Close()

	if !strings.HasPrefix(body.Link, "https://wa.me/") {
		t.Errorf("link: got %q, want wa.me deep link", body.Link)
	}
	if !strings.Contains(body.Summary, "Midnight Sapphire") {
		t.Errorf("summary does not mention the product: %q", body.Summary)
	}
	// 750000 with 15% off.
	if want := 637500.0; math.Abs(body.Total-want) > 0.01 {
		t.Errorf("total: got %v, want %v", body.Total, want)
	}

	resp = doRequest(t, http.MethodGet, "/api/cart", nil, token)
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Items) != 0 {
		t.Errorf("cart not cleared after checkout: %d items", len(cart.Items))
	}
}
