package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/handlers"
	"gorm.io/gorm"
)

// newAccountApp wires the user, cart and order routes without auth
// middleware
func newAccountApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	users := &handlers.UserHandler{DB: db}

	app.Post("/api/users", users.Register)
	app.Get("/api/users/:id", users.GetUser)
	app.Put("/api/users/:id", users.ModifyUser)
	app.Delete("/api/users/:id", users.DeleteUser)
	app.Post("/api/users/:id/roles", users.AddRole)
	app.Get("/api/users/:id/cards", users.ListCards)
	app.Post("/api/users/:id/cards", users.AddCard)
	app.Put("/api/cards/:cardId", users.ModifyCard)
	app.Delete("/api/cards/:cardId", users.RemoveCard)
	app.Get("/api/users/:id/orders", users.ListOrders)
	app.Post("/api/users/:id/orders", users.CreateOrder)
	app.Get("/api/orders/:orderId", users.GetOrder)
	app.Delete("/api/orders/:orderId", users.DeleteOrder)

	return app
}

// TestRegisterEndpoint tests registration and the password never
// appearing in the response
func TestRegisterEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := newAccountApp(db)

	result := postJSON(t, app, "/api/users", map[string]interface{}{
		"firstName": "Ada",
		"email":     "ada@example.com",
		"password":  "s3cret",
	})
	if result["email"] != "ada@example.com" {
		t.Errorf("Expected registered user, got %v", result)
	}
	if _, leaked := result["password"]; leaked {
		t.Error("Password must not appear in the response")
	}
	roles, ok := result["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "CUSTOMER" {
		t.Errorf("Expected CUSTOMER role, got %v", result["roles"])
	}
}

// TestRegisterDuplicateEndpoint tests the 409 envelope on a duplicate
// email
func TestRegisterDuplicateEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := newAccountApp(db)

	postJSON(t, app, "/api/users", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "s3cret",
	})

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "ada@example.com",
		"password": "other",
	})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("Expected status 409, got %d", resp.StatusCode)
	}
}

// TestCheckoutFlow tests the cart-to-order round trip through the API,
// including string card ids in the checkout body
func TestCheckoutFlow(t *testing.T) {
	db := setupTestDB(t)
	category := createTestCategory(t, db, "electronics")
	product := createTestProduct(t, db, "phone", category)
	app := newAccountApp(db)

	user := postJSON(t, app, "/api/users", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "s3cret",
	})
	userID := jsonID(user)

	card := postJSON(t, app, "/api/users/"+userID+"/cards", map[string]interface{}{
		"productId": product,
		"quantity":  2,
	})
	cardID := jsonID(card)

	// Clients may send ids as strings; the flex parsing absorbs it
	order := postJSON(t, app, "/api/users/"+userID+"/orders", map[string]interface{}{
		"cardsId": []string{cardID},
	})
	cards, ok := order["cardsId"].([]interface{})
	if !ok || len(cards) != 1 {
		t.Fatalf("Expected one claimed card, got %v", order)
	}

	// A claimed line refuses quantity changes
	body, _ := json.Marshal(map[string]interface{}{"quantity": 9})
	req := httptest.NewRequest("PUT", "/api/cards/"+cardID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for claimed card, got %d", resp.StatusCode)
	}

	// Cancelling releases the line
	req = httptest.NewRequest("DELETE", "/api/orders/"+jsonID(order), nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/users/"+userID+"/cards", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var lines []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(lines) != 1 || lines[0]["orderId"] != nil {
		t.Errorf("Expected one released line, got %v", lines)
	}
}

// TestGrantRoleEndpoint tests role assignment by name
func TestGrantRoleEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := newAccountApp(db)

	user := postJSON(t, app, "/api/users", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "s3cret",
	})
	userID := jsonID(user)

	postJSON(t, app, "/api/users/"+userID+"/roles", map[string]interface{}{"role": "ADMIN"})

	req := httptest.NewRequest("GET", "/api/users/"+userID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	roles, ok := result["roles"].([]interface{})
	if !ok || len(roles) != 2 {
		t.Errorf("Expected CUSTOMER and ADMIN, got %v", result["roles"])
	}
}
