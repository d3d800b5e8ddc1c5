//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestProductCatalog(t *testing.T) {
	admin := newSession(t, adminEmail, adminPassword)

	resp := doJSON(t, admin, http.MethodPost, "/api/products", map[string]any{
		"name":  "Integration Keyboard",
		"price": "49.90",
		"stock": 12,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	if created.Price != "49.9" && created.Price != "49.90" {
		t.Fatalf("unexpected price: %q", created.Price)
	}

	resp = doGet(t, admin, "/api/products/"+created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, admin, http.MethodPut, "/api/products/"+created.ID, map[string]any{
		"name":  "Integration Keyboard v2",
		"price": "59.90",
		"stock": 8,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update product: expected 200, got %d", resp.StatusCode)
	}
	updated := decodeJSON[productResponse](t, resp)
	resp.Body.Close()
	if updated.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", updated.Stock)
	}

	// Soft delete hides the product from reads.
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/api/products/"+created.ID, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	delResp, err := admin.Do(req)
	if err != nil {
		t.Fatalf("delete product: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete product: expected 204, got %d", delResp.StatusCode)
	}

	resp = doGet(t, admin, "/api/products/"+created.ID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted product: expected 404, got %d", resp.StatusCode)
	}
}

func TestProductList_DemoCatalogPresent(t *testing.T) {
	alice := newSession(t, aliceEmail, alicePassword)

	resp := doGet(t, alice, "/api/products")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list products: expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) < 5 {
		t.Fatalf("expected at least the 5 demo products, got %d", len(products))
	}
}
