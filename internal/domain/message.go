package domain

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (r *CreateMessageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *CreateMessageRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Phone == "" || r.Message == "" {
		return fmt.Errorf("%w: name, email, phone and message are required", ErrValidation)
	}
	if len(r.Message) > 1000 {
		return fmt.Errorf("%w: message must be at most 1000 characters", ErrValidation)
	}
	return nil
}
