package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/types"
	"github.com/localstore/storeapi/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user, role, favourite, cart and order routes
type UserHandler struct {
	DB *gorm.DB
}

type roleRequest struct {
	Role string `json:"role"`
}

// Checkout bodies arrive from several clients; some send a single card
// id, some send string ids. The flex types absorb both shapes.
type orderRequest struct {
	CardsID types.FlexList[types.FlexUint64] `json:"cardsId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// Register handles POST /api/users
// @Summary Register a user
// @Description Creates a user with the CUSTOMER role and default discount
// @Tags Users
// @Accept json
// @Produce json
// @Param user body services.UserRequest true "User fields"
// @Success 201 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req services.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.RegisterUser(h.DB, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ListUsers handles GET /api/users
// @Summary List users, paged and sorted
// @Tags Users
// @Accept json
// @Produce json
// @Param pageNumber query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Success 200 {array} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListUsers(h.DB, page)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// GetUser handles GET /api/users/:id
// @Summary Get one user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} services.UserView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetUser(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// ModifyUser handles PUT /api/users/:id
// @Summary Modify a user
// @Description Partial update; email changes re-check uniqueness
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UserRequest true "User fields"
// @Success 200 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) ModifyUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyUser(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user with their cart, favourites and roles
// @Description A user holding orders cannot be deleted
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteUser(h.DB, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// AddRole handles POST /api/users/:id/roles
// @Summary Grant a role to a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param role body roleRequest true "Role name"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/roles [post]
func (h *UserHandler) AddRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	if err := services.AddRoleToUser(h.DB, id, req.Role); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveRole handles DELETE /api/users/:id/roles
// @Summary Revoke a role from a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param role body roleRequest true "Role name"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/roles [delete]
func (h *UserHandler) RemoveRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	if err := services.RemoveRoleFromUser(h.DB, id, req.Role); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// ListFavourites handles GET /api/users/:id/favourites
// @Summary List a user's favourite products
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.ProductView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/favourites [get]
func (h *UserHandler) ListFavourites(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListFavouriteProducts(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// AddFavourite handles POST /api/users/:id/favourites/:productId
// @Summary Mark a product as favourite
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/favourites/{productId} [post]
func (h *UserHandler) AddFavourite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.AddFavouriteProduct(h.DB, id, productID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveFavourite handles DELETE /api/users/:id/favourites/:productId
// @Summary Unmark a favourite product
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/favourites/{productId} [delete]
func (h *UserHandler) RemoveFavourite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveFavouriteProduct(h.DB, id, productID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// ListCards handles GET /api/users/:id/cards
// @Summary List a user's cart lines, open and ordered
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.CardView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/cards [get]
func (h *UserHandler) ListCards(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListCards(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// AddCard handles POST /api/users/:id/cards
// @Summary Open a cart line for a product
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param card body services.CardRequest true "Cart line fields"
// @Success 201 {object} services.CardView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/cards [post]
func (h *UserHandler) AddCard(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.CardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.AddCardToProduct(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ModifyCard handles PUT /api/cards/:cardId
// @Summary Change the quantity of an open cart line
// @Tags Users
// @Accept json
// @Produce json
// @Param cardId path int true "Card ID"
// @Param quantity body quantityRequest true "New quantity"
// @Success 200 {object} services.CardView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /cards/{cardId} [put]
func (h *UserHandler) ModifyCard(c *fiber.Ctx) error {
	cardID, err := parseID(c, "cardId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyCard(h.DB, cardID, req.Quantity)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// RemoveCard handles DELETE /api/cards/:cardId
// @Summary Drop an open cart line
// @Tags Users
// @Accept json
// @Produce json
// @Param cardId path int true "Card ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /cards/{cardId} [delete]
func (h *UserHandler) RemoveCard(c *fiber.Ctx) error {
	cardID, err := parseID(c, "cardId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveCardFromProduct(h.DB, cardID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// ListOrders handles GET /api/users/:id/orders
// @Summary List a user's orders
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.OrderView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/orders [get]
func (h *UserHandler) ListOrders(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListOrders(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// CreateOrder handles POST /api/users/:id/orders
// @Summary Check out a set of open cart lines
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param order body orderRequest true "Card ids to claim"
// @Success 201 {object} services.OrderView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users/{id}/orders [post]
func (h *UserHandler) CreateOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	cardIDs := make([]uint64, 0, len(req.CardsID))
	for _, cardID := range req.CardsID {
		cardIDs = append(cardIDs, cardID.Uint64())
	}
	view, err := services.CreateOrder(h.DB, id, cardIDs)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// GetOrder handles GET /api/orders/:orderId
// @Summary Get one order with its claimed card ids
// @Tags Users
// @Accept json
// @Produce json
// @Param orderId path int true "Order ID"
// @Success 200 {object} services.OrderView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /orders/{orderId} [get]
func (h *UserHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetOrder(h.DB, orderID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteOrder handles DELETE /api/orders/:orderId
// @Summary Cancel an order, releasing its cards back to the cart
// @Tags Users
// @Accept json
// @Produce json
// @Param orderId path int true "Order ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /orders/{orderId} [delete]
func (h *UserHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteOrder(h.DB, orderID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}
