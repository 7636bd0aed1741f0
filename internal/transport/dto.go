package transport

import (
	"net/mail"
	"strings"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name"  form:"last_name"`
	Email     string `json:"email"      form:"email"`
	Password  string `json:"password"   form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type AddToCartRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

type CartLine struct {
	ProductID uint     `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Quantity  uint     `json:"quantity"`
	LineTotal float64  `json:"line_total"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

type CheckoutStarted struct {
	OrderID    uint   `json:"order_id"`
	SessionURL string `json:"session_url"`
}

type OrderConfirmation struct {
	OrderID uint    `json:"order_id"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
}

// FieldError is one failed form constraint. Handlers return the full slice
// so the client can render every problem at once.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	if n := len(r.FirstName); n < 2 || n > 100 {
		errs = append(errs, FieldError{Field: "first_name", Reason: "must be between 2 and 100 characters"})
	}
	if n := len(r.LastName); n < 2 || n > 100 {
		errs = append(errs, FieldError{Field: "last_name", Reason: "must be between 2 and 100 characters"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Reason: "required"})
	} else if _, err := mail.ParseAddress(r.Email); err != nil || len(r.Email) > 120 {
		errs = append(errs, FieldError{Field: "email", Reason: "not a valid email address"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Reason: "must be at least 6 characters"})
	}

	return errs
}

func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Reason: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Reason: "required"})
	}
	return errs
}
