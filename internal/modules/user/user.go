package user

import (
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

// User is a staff account. StoreID is set for store-bound roles.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         access.Role `json:"role"`
	StoreID      *int64      `json:"storeId,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Principal returns the access identity carried in this user's tokens.
func (u *User) Principal() access.Principal {
	p := access.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}
	if u.StoreID != nil {
		p.StoreID = *u.StoreID
	}
	return p
}

// Mention is the slim view used by @name autocomplete.
type Mention struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RegisterRequest is the payload for creating a staff account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	StoreID  *int64 `json:"storeId,omitempty"`
}
