package services

import (
	"errors"
	"fmt"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
)

// CardRequest carries the writable cart-line fields.
type CardRequest struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddCardToProduct opens a cart line for a user and product. A second
// call for the same pair while the line is still open returns the
// existing line unchanged.
func AddCardToProduct(db *gorm.DB, userID uint64, req CardRequest) (*CardView, error) {
	if req.Quantity <= 0 {
		return nil, &types.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	var view *CardView
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := userByID(tx, userID); err != nil {
			return err
		}
		if _, err := productByID(tx, req.ProductID); err != nil {
			return err
		}

		var open models.Card
		err := tx.Where("user_id = ? AND product_id = ? AND order_id IS NULL", userID, req.ProductID).
			First(&open).Error
		if err == nil {
			view = cardView(&open)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		card := models.Card{
			ProductID: req.ProductID,
			UserID:    userID,
			Quantity:  req.Quantity,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		view = cardView(&card)
		return nil
	})
	return view, err
}

// ModifyCard changes the quantity of an open cart line. Ordered lines
// are immutable.
func ModifyCard(db *gorm.DB, cardID uint64, quantity int) (*CardView, error) {
	if quantity <= 0 {
		return nil, &types.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	var view *CardView
	err := db.Transaction(func(tx *gorm.DB) error {
		card, err := cardByID(tx, cardID)
		if err != nil {
			return err
		}
		if card.OrderID != nil {
			return &types.ValidationError{Field: "id", Reason: "card is claimed by an order"}
		}
		card.Quantity = quantity
		if err := tx.Model(card).Update("quantity", quantity).Error; err != nil {
			return err
		}
		view = cardView(card)
		return nil
	})
	return view, err
}

// RemoveCardFromProduct drops an open cart line. A line already gone is
// a no-op; an ordered line stays.
func RemoveCardFromProduct(db *gorm.DB, cardID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var card models.Card
		err := tx.First(&card, cardID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if card.OrderID != nil {
			return &types.ValidationError{Field: "id", Reason: "card is claimed by an order"}
		}
		return tx.Delete(&card).Error
	})
}

// GetCard returns one cart line.
func GetCard(db *gorm.DB, cardID uint64) (*CardView, error) {
	card, err := cardByID(db, cardID)
	if err != nil {
		return nil, err
	}
	return cardView(card), nil
}

// ListCards returns every cart line of a user, open and ordered.
func ListCards(db *gorm.DB, userID uint64) ([]CardView, error) {
	if _, err := userByID(db, userID); err != nil {
		return nil, err
	}
	var cards []models.Card
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	views := make([]CardView, 0, len(cards))
	for i := range cards {
		views = append(views, *cardView(&cards[i]))
	}
	return views, nil
}

// CreateOrder checks out a set of the user's open cart lines. All named
// cards must belong to the user and be unclaimed; the claim is a single
// guarded update so two concurrent checkouts cannot share a card.
func CreateOrder(db *gorm.DB, userID uint64, cardIDs []uint64) (*OrderView, error) {
	if len(cardIDs) == 0 {
		return nil, &types.ValidationError{Field: "cardsId", Reason: "must not be empty"}
	}
	// A card named twice counts once; the claim below checks affected
	// rows against the distinct ids.
	seen := make(map[uint64]struct{}, len(cardIDs))
	distinct := make([]uint64, 0, len(cardIDs))
	for _, id := range cardIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	cardIDs = distinct

	var view *OrderView
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, userID)
		if err != nil {
			return err
		}

		var cards []models.Card
		if err := tx.Find(&cards, cardIDs).Error; err != nil {
			return err
		}
		found := make([]uint64, 0, len(cards))
		for _, card := range cards {
			found = append(found, card.ID)
		}
		if missing := firstMissing(cardIDs, found); missing != 0 {
			return types.NotFound("card", missing)
		}
		for _, card := range cards {
			if card.UserID != user.ID {
				return &types.ValidationError{
					Field:  "cardsId",
					Reason: fmt.Sprintf("card %d belongs to another user", card.ID),
				}
			}
			if card.OrderID != nil {
				return &types.ValidationError{
					Field:  "cardsId",
					Reason: fmt.Sprintf("card %d is already ordered", card.ID),
				}
			}
		}

		order := models.Order{UserID: user.ID}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Card{}).
			Where("id IN ? AND order_id IS NULL", cardIDs).
			Update("order_id", order.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(cardIDs)) {
			return &types.WriteConflictError{Entity: "order", ID: order.ID}
		}

		view = &OrderView{ID: order.ID, UserID: order.UserID, CardsID: cardIDs}
		return nil
	})
	return view, err
}

// GetOrder returns one order with its claimed card ids.
func GetOrder(db *gorm.DB, id uint64) (*OrderView, error) {
	var order models.Order
	err := db.Preload("Cards").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("order", id)
		}
		return nil, err
	}
	return orderView(&order), nil
}

// ListOrders returns every order of a user.
func ListOrders(db *gorm.DB, userID uint64) ([]OrderView, error) {
	if _, err := userByID(db, userID); err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := db.Preload("Cards").
		Where("user_id = ?", userID).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *orderView(&orders[i]))
	}
	return views, nil
}

// DeleteOrder cancels an order. Its cards go back to the open cart
// rather than disappearing.
func DeleteOrder(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("order", id)
			}
			return err
		}
		if err := tx.Model(&models.Card{}).
			Where("order_id = ?", order.ID).
			Update("order_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

func cardByID(tx *gorm.DB, id uint64) (*models.Card, error) {
	var card models.Card
	if err := tx.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("card", id)
		}
		return nil, err
	}
	return &card, nil
}
