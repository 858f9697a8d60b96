package services

import (
	"github.com/localstore/storeapi/internal/models"
)

// View types are the flat API output shapes. They carry ids, never nested
// entities, so association edges stay visible as references.

// CategoryView is the API shape of a category.
type CategoryView struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parentCategoryId"`
}

// ProductView is the API shape of a product, with association edges
// flattened to id lists.
type ProductView struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	CodeUnit      string   `json:"codeUnit"`
	IsActive      bool     `json:"isActive"`
	Price         int64    `json:"price"`
	MaxPrice      int64    `json:"maxPrice"`
	Description   string   `json:"description"`
	CategoryID    *uint64  `json:"categoryId"`
	FeatureKeysID []uint64 `json:"featureKeysId"`
	Images        []uint64 `json:"images"`
	Files         []uint64 `json:"files"`
}

// FeatureKeyView is the API shape of a feature key.
type FeatureKeyView struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	FeatureID uint64 `json:"featureId"`
}

// FeatureView is the API shape of a feature with its keys.
type FeatureView struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	FeatureKeys []FeatureKeyView `json:"featureKeys"`
}

// ResourceView is the API shape of an image or file descriptor. Meta
// carries the free-form metadata document supplied at upload.
type ResourceView struct {
	ID          uint64      `json:"id"`
	FileName    string      `json:"fileName"`
	ContentType string      `json:"contentType"`
	Size        int64       `json:"size"`
	Meta        models.JSON `json:"meta"`
}

// UserView is the API shape of a user. The password hash never leaves
// the service layer.
type UserView struct {
	ID          uint64   `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Street      string   `json:"street"`
	City        string   `json:"city"`
	CountryCode string   `json:"countryCode"`
	Discount    int      `json:"discount"`
	Roles       []string `json:"roles"`
}

// OrderView is the API shape of an order with claimed card ids.
type OrderView struct {
	ID      uint64   `json:"id"`
	UserID  uint64   `json:"userId"`
	CardsID []uint64 `json:"cardsId"`
}

// CardView is the API shape of a cart line item.
type CardView struct {
	ID        uint64  `json:"id"`
	ProductID uint64  `json:"productId"`
	UserID    uint64  `json:"userId"`
	OrderID   *uint64 `json:"orderId"`
	Quantity  int     `json:"quantity"`
}

func categoryView(category *models.Category) *CategoryView {
	return &CategoryView{
		ID:       category.ID,
		Name:     category.Name,
		ParentID: category.ParentID,
	}
}

func productView(product *models.Product) *ProductView {
	view := &ProductView{
		ID:            product.ID,
		Name:          product.Name,
		CodeUnit:      product.CodeUnit,
		IsActive:      product.IsActive,
		Price:         product.Price,
		MaxPrice:      product.MaxPrice,
		Description:   product.Description,
		CategoryID:    product.CategoryID,
		FeatureKeysID: make([]uint64, 0, len(product.FeatureKeys)),
		Images:        make([]uint64, 0, len(product.Images)),
		Files:         make([]uint64, 0, len(product.Files)),
	}
	for _, key := range product.FeatureKeys {
		view.FeatureKeysID = append(view.FeatureKeysID, key.ID)
	}
	for _, image := range product.Images {
		view.Images = append(view.Images, image.ID)
	}
	for _, file := range product.Files {
		view.Files = append(view.Files, file.ID)
	}
	return view
}

func featureKeyView(key *models.FeatureKey) *FeatureKeyView {
	return &FeatureKeyView{ID: key.ID, Name: key.Name, FeatureID: key.FeatureID}
}

func featureView(feature *models.Feature) *FeatureView {
	view := &FeatureView{
		ID:          feature.ID,
		Name:        feature.Name,
		FeatureKeys: make([]FeatureKeyView, 0, len(feature.FeatureKeys)),
	}
	for i := range feature.FeatureKeys {
		view.FeatureKeys = append(view.FeatureKeys, *featureKeyView(&feature.FeatureKeys[i]))
	}
	return view
}

func userView(user *models.User) *UserView {
	view := &UserView{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Phone:       user.Phone,
		Street:      user.Street,
		City:        user.City,
		CountryCode: user.CountryCode,
		Discount:    user.Discount,
		Roles:       make([]string, 0, len(user.Roles)),
	}
	for _, role := range user.Roles {
		view.Roles = append(view.Roles, role.Role)
	}
	return view
}

func orderView(order *models.Order) *OrderView {
	view := &OrderView{
		ID:      order.ID,
		UserID:  order.UserID,
		CardsID: make([]uint64, 0, len(order.Cards)),
	}
	for _, card := range order.Cards {
		view.CardsID = append(view.CardsID, card.ID)
	}
	return view
}

func cardView(card *models.Card) *CardView {
	return &CardView{
		ID:        card.ID,
		ProductID: card.ProductID,
		UserID:    card.UserID,
		OrderID:   card.OrderID,
		Quantity:  card.Quantity,
	}
}
