package models

import (
	"time"
)

// Role values stored in the roles table.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// DefaultDiscount is assigned to every newly registered user.
const DefaultDiscount = 3

// User holds identity fields plus the customer-facing relations:
// roles, favourite products, orders and open cart lines.
type User struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FirstName   string `gorm:"size:100"`
	LastName    string `gorm:"size:100"`
	Email       string `gorm:"size:255;not null;uniqueIndex"`
	Phone       string `gorm:"size:30"`
	Street      string `gorm:"size:150"`
	City        string `gorm:"size:100"`
	CountryCode string `gorm:"size:2"`
	Password    string `gorm:"size:255;not null" json:"-"`
	Discount    int    `gorm:"not null;default:3"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Roles       []Roles   `gorm:"many2many:user_roles;joinForeignKey:user_id;joinReferences:role_id"`
	Favourites  []Product `gorm:"many2many:user_favourite_products;joinForeignKey:user_id;joinReferences:product_id"`
	Orders      []Order   `gorm:"foreignKey:UserID"`
	Cards       []Card    `gorm:"foreignKey:UserID"`
}

// Roles is an enumerated role, many-to-many with users.
type Roles struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	Role  string `gorm:"size:20;not null;uniqueIndex"`
	Users []User `gorm:"many2many:user_roles;joinForeignKey:role_id;joinReferences:user_id"`
}

// Order belongs to exactly one user and claims a set of cards.
type Order struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	User      *User
	CreatedAt time.Time
	UpdatedAt time.Time
	Cards     []Card `gorm:"foreignKey:OrderID"`
}

// Card is a cart line item: one product, a quantity, one owning user.
// OrderID is nil while the card sits in the cart; an order claims it at
// checkout. A card is never claimed by more than one order.
type Card struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID uint64 `gorm:"not null;index"`
	Product   *Product
	UserID    uint64 `gorm:"not null;index"`
	OrderID   *uint64 `gorm:"index"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Roles
func (Roles) TableName() string {
	return "roles"
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName overrides the table name for Card
func (Card) TableName() string {
	return "cards"
}
