//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)

	var chrono *productResponse
	for i := range products {
		if products[i].ID == "elegance-chrono" {
			chrono = &products[i]
			break
		}
	}

	if chrono == nil {
		t.Fatal("product 'elegance-chrono' not found")
	}
	if chrono.Name != "Elegance Chrono" {
		t.Errorf("name: got %q, want %q", chrono.Name, "Elegance Chrono")
	}
	if chrono.Price != 450000 {
		t.Errorf("price: got %v, want 450000", chrono.Price)
	}
	if chrono.Discount != 10 {
		t.Errorf("discount: got %d, want 10", chrono.Discount)
	}
	if chrono.Category != "Clásico" {
		t.Errorf("category: got %q, want %q", chrono.Category, "Clásico")
	}
	if !chrono.IsFeatured {
		t.Error("expected is_featured to be true")
	}
	if len(chrono.Images) == 0 || chrono.Images[0] == "" {
		t.Error("images is empty")
	}
}

func TestListProducts_Search(t *testing.T) {
	resp := doGet(t, "/api/products?q="+url.QueryEscape("sapphire"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected 1 match, got %d", len(products))
	}
	if products[0].ID != "midnight-sapphire" {
		t.Errorf("id: got %q, want %q", products[0].ID, "midnight-sapphire")
	}
}

func TestListProducts_SearchByCategory(t *testing.T) {
	resp := doGet(t, "/api/products?q="+url.QueryEscape("deportivo"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected 1 match, got %d", len(products))
	}
	if products[0].ID != "sportive-gt" {
		t.Errorf("id: got %q, want %q", products[0].ID, "sportive-gt")
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/aura-minimalist")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	product := decodeJSON[productResponse](t, resp)
	if product.ID != "aura-minimalist" {
		t.Errorf("id: got %q, want %q", product.ID, "aura-minimalist")
	}
	if product.Name != "Aura Minimalist" {
		t.Errorf("name: got %q, want %q", product.Name, "Aura Minimalist")
	}
	if product.Stock != 100 {
		t.Errorf("stock: got %d, want 100", product.Stock)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/does-not-exist")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", body.Code)
	}
	if body.Message == "" {
		t.Error("error message is empty")
	}
}

func TestProductLifecycle(t *testing.T) {
	create := doPost(t, "/api/products", map[string]any{
		"name":        "Test Automatic",
		"description": "Integration test watch",
		"category":    "Automático",
		"price":       999000,
		"discount":    20,
		"stock":       7,
	})
	defer create.Body.Close()

	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", create.StatusCode)
	}
	created := decodeJSON[productResponse](t, create)
	if created.ID == "" {
		t.Fatal("created product has no id")
	}

	update := doRequest(t, http.MethodPut, "/api/products/"+created.ID, map[string]any{
		"name":     "Test Automatic v2",
		"category": "Automático",
		"price":    899000,
		"stock":    5,
	}, "")
	defer update.Body.Close()

	if update.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", update.StatusCode)
	}
	updated := decodeJSON[productResponse](t, update)
	if updated.Name != "Test Automatic v2" {
		t.Errorf("updated name: got %q", updated.Name)
	}

	del := doDelete(t, "/api/products/"+created.ID)
	defer del.Body.Close()

	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", del.StatusCode)
	}

	get := doGet(t, "/api/products/"+created.ID)
	defer get.Body.Close()

	if get.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", get.StatusCode)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	resp := doPost(t, "/api/products", map[string]any{
		"name":     "No price watch",
		"category": "Clásico",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
