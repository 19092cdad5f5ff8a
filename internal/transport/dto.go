package transport

import "time"

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type LoginResponse struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type CartItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items []CartItem `json:"items"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    *string `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
}

// StatusResponse is the body of every mutating endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      uint   `json:"id,omitempty"`
}

func OK(message string) StatusResponse {
	return StatusResponse{Status: "ok", Message: message}
}

func OKWithID(message string, id uint) StatusResponse {
	return StatusResponse{Status: "ok", Message: message, ID: id}
}
