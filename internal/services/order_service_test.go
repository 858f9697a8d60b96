package services_test

import (
	"errors"
	"testing"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/types"
)

// TestAddCardToProductIdempotent verifies a second add for the same
// open pair returns the existing line instead of a duplicate.
func TestAddCardToProductIdempotent(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	user := createUser(t, db, "ada@example.com")

	first, err := services.AddCardToProduct(db, user.ID, services.CardRequest{
		ProductID: product.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}
	second, err := services.AddCardToProduct(db, user.ID, services.CardRequest{
		ProductID: product.ID,
		Quantity:  5,
	})
	if err != nil {
		t.Fatalf("Repeated AddCardToProduct failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected same line %d, got %d", first.ID, second.ID)
	}
	if second.Quantity != 2 {
		t.Errorf("Expected unchanged quantity 2, got %d", second.Quantity)
	}

	var count int64
	db.Model(&models.Card{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 line, got %d", count)
	}
}

func TestAddCardValidation(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	user := createUser(t, db, "ada@example.com")

	_, err := services.AddCardToProduct(db, user.ID, services.CardRequest{
		ProductID: product.ID,
		Quantity:  0,
	})
	var invalid *types.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected ValidationError for zero quantity, got %v", err)
	}

	_, err = services.AddCardToProduct(db, user.ID, services.CardRequest{
		ProductID: 9999,
		Quantity:  1,
	})
	var notFound *types.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError for missing product, got %v", err)
	}
}

// TestCreateOrderClaimsCards verifies checkout claims every named line
// and claimed lines become immutable.
func TestCreateOrderClaimsCards(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	phone := createProduct(t, db, "phone", category.ID)
	tablet := createProduct(t, db, "tablet", category.ID)
	user := createUser(t, db, "ada@example.com")

	line1, err := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: phone.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}
	line2, err := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: tablet.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}

	order, err := services.CreateOrder(db, user.ID, []uint64{line1.ID, line2.ID})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if len(order.CardsID) != 2 {
		t.Fatalf("Expected 2 claimed cards, got %v", order.CardsID)
	}

	card, err := services.GetCard(db, line1.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.OrderID == nil || *card.OrderID != order.ID {
		t.Errorf("Expected card claimed by order %d, got %v", order.ID, card.OrderID)
	}

	// Claimed lines resist modify and remove
	var invalid *types.ValidationError
	if _, err := services.ModifyCard(db, line1.ID, 9); !errors.As(err, &invalid) {
		t.Errorf("Expected ValidationError for ordered-card modify, got %v", err)
	}
	if err := services.RemoveCardFromProduct(db, line1.ID); !errors.As(err, &invalid) {
		t.Errorf("Expected ValidationError for ordered-card remove, got %v", err)
	}
}

// TestCreateOrderDuplicateCardIDs verifies a card named twice claims
// once instead of tripping the affected-rows check.
func TestCreateOrderDuplicateCardIDs(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	user := createUser(t, db, "ada@example.com")

	line, err := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}

	order, err := services.CreateOrder(db, user.ID, []uint64{line.ID, line.ID})
	if err != nil {
		t.Fatalf("CreateOrder with duplicate ids failed: %v", err)
	}
	if len(order.CardsID) != 1 || order.CardsID[0] != line.ID {
		t.Errorf("Expected single claimed card %d, got %v", line.ID, order.CardsID)
	}

	card, err := services.GetCard(db, line.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.OrderID == nil || *card.OrderID != order.ID {
		t.Errorf("Expected card claimed by order %d, got %v", order.ID, card.OrderID)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	ada := createUser(t, db, "ada@example.com")
	grace := createUser(t, db, "grace@example.com")

	var invalid *types.ValidationError
	if _, err := services.CreateOrder(db, ada.ID, nil); !errors.As(err, &invalid) {
		t.Errorf("Expected ValidationError for empty card list, got %v", err)
	}

	var notFound *types.NotFoundError
	if _, err := services.CreateOrder(db, ada.ID, []uint64{9999}); !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError for missing card, got %v", err)
	}

	// A card belonging to another user is rejected
	line, err := services.AddCardToProduct(db, grace.ID, services.CardRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}
	if _, err := services.CreateOrder(db, ada.ID, []uint64{line.ID}); !errors.As(err, &invalid) {
		t.Errorf("Expected ValidationError for foreign card, got %v", err)
	}

	// An already-claimed card cannot be ordered again
	if _, err := services.CreateOrder(db, grace.ID, []uint64{line.ID}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := services.CreateOrder(db, grace.ID, []uint64{line.ID}); !errors.As(err, &invalid) {
		t.Errorf("Expected ValidationError for claimed card, got %v", err)
	}
}

// TestDeleteOrderReleasesCards verifies cancellation returns lines to
// the open cart.
func TestDeleteOrderReleasesCards(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	user := createUser(t, db, "ada@example.com")

	line, err := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddCardToProduct failed: %v", err)
	}
	order, err := services.CreateOrder(db, user.ID, []uint64{line.ID})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := services.DeleteOrder(db, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}

	card, err := services.GetCard(db, line.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.OrderID != nil {
		t.Errorf("Expected released card, got order %v", card.OrderID)
	}

	// The released line is editable again
	if _, err := services.ModifyCard(db, line.ID, 4); err != nil {
		t.Errorf("Expected modify after release, got %v", err)
	}
}

func TestListCardsAndOrders(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	phone := createProduct(t, db, "phone", category.ID)
	tablet := createProduct(t, db, "tablet", category.ID)
	user := createUser(t, db, "ada@example.com")

	line1, _ := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: phone.ID, Quantity: 1})
	line2, _ := services.AddCardToProduct(db, user.ID, services.CardRequest{ProductID: tablet.ID, Quantity: 2})

	if _, err := services.CreateOrder(db, user.ID, []uint64{line1.ID}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	cards, err := services.ListCards(db, user.ID)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(cards))
	}
	if cards[0].ID != line1.ID || cards[1].ID != line2.ID {
		t.Errorf("Unexpected order: %d, %d", cards[0].ID, cards[1].ID)
	}

	orders, err := services.ListOrders(db, user.ID)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 1 || len(orders[0].CardsID) != 1 || orders[0].CardsID[0] != line1.ID {
		t.Errorf("Unexpected orders: %+v", orders)
	}
}

// TestRemoveCardMissingIsNoOp verifies a gone line does not error.
func TestRemoveCardMissingIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	if err := services.RemoveCardFromProduct(db, 9999); err != nil {
		t.Fatalf("Expected no-op for missing card, got %v", err)
	}
}
