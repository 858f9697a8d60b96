package services

import (
	"errors"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/query"
	"github.com/localstore/storeapi/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRequest carries the writable user fields. Empty strings on modify
// leave the current value alone.
type UserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	Password    string `json:"password"`
}

// RegisterUser creates a user with a hashed password, the CUSTOMER role
// and the default discount. Email is the uniqueness key.
func RegisterUser(db *gorm.DB, req UserRequest) (*UserView, error) {
	if req.Email == "" {
		return nil, &types.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if req.Password == "" {
		return nil, &types.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var view *UserView
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", req.Email).First(&existing).Error
		if err == nil {
			return &types.AlreadyExistsError{Entity: "user", Ref: req.Email}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var customer models.Roles
		err = tx.Where("role = ?", models.RoleCustomer).First(&customer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Entity: "role", Ref: models.RoleCustomer}
			}
			return err
		}

		user := models.User{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			Street:      req.Street,
			City:        req.City,
			CountryCode: req.CountryCode,
			Password:    string(hash),
			Discount:    models.DefaultDiscount,
			Roles:       []models.Roles{customer},
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		view = userView(&user)
		return nil
	})
	return view, err
}

// ModifyUser applies a partial update. Email changes re-check
// uniqueness; password changes are re-hashed.
func ModifyUser(db *gorm.DB, id uint64, req UserRequest) (*UserView, error) {
	var view *UserView
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.FirstName != "" {
			updates["first_name"] = req.FirstName
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			updates["last_name"] = req.LastName
			user.LastName = req.LastName
		}
		if req.Email != "" && req.Email != user.Email {
			var existing models.User
			err := tx.Where("email = ? AND id <> ?", req.Email, id).First(&existing).Error
			if err == nil {
				return &types.AlreadyExistsError{Entity: "user", Ref: req.Email}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			updates["email"] = req.Email
			user.Email = req.Email
		}
		if req.Phone != "" {
			updates["phone"] = req.Phone
			user.Phone = req.Phone
		}
		if req.Street != "" {
			updates["street"] = req.Street
			user.Street = req.Street
		}
		if req.City != "" {
			updates["city"] = req.City
			user.City = req.City
		}
		if req.CountryCode != "" {
			updates["country_code"] = req.CountryCode
			user.CountryCode = req.CountryCode
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			updates["password"] = string(hash)
			user.Password = string(hash)
		}

		if len(updates) > 0 {
			if err := tx.Model(user).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(user).Association("Roles").Find(&user.Roles); err != nil {
			return err
		}
		view = userView(user)
		return nil
	})
	return view, err
}

// DeleteUser removes a user with their cart, favourites and roles. A
// user holding orders cannot be deleted.
func DeleteUser(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, id)
		if err != nil {
			return err
		}

		var orders int64
		if err := tx.Model(&models.Order{}).
			Where("user_id = ?", user.ID).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return &types.ValidationError{Field: "id", Reason: "user has orders"}
		}

		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Association("Favourites").Clear(); err != nil {
			return err
		}
		if err := tx.Model(user).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// GetUser returns one user with role names.
func GetUser(db *gorm.DB, id uint64) (*UserView, error) {
	var user models.User
	err := db.Preload("Roles").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("user", id)
		}
		return nil, err
	}
	return userView(&user), nil
}

// GetUserByEmail returns one user addressed by email.
func GetUserByEmail(db *gorm.DB, email string) (*UserView, error) {
	var user models.User
	err := db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Entity: "user", Ref: email}
		}
		return nil, err
	}
	return userView(&user), nil
}

// ListUsers runs a compiled paginated user listing.
func ListUsers(db *gorm.DB, page query.Page) ([]UserView, error) {
	q, err := query.Users(db, page)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := q.Preload("Roles").Find(&users).Error; err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, *userView(&users[i]))
	}
	return views, nil
}

// CheckPassword verifies a plaintext password against a user's stored
// hash. The mismatch error is deliberately the same as the missing-user
// error so callers cannot probe for registered emails.
func CheckPassword(db *gorm.DB, email, password string) (*UserView, error) {
	var user models.User
	err := db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Entity: "user", Ref: email}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &types.NotFoundError{Entity: "user", Ref: email}
	}
	return userView(&user), nil
}
