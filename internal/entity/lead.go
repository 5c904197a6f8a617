package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEmailAlreadyExists = errors.New("a client with this email already exists")
)

type ClientStatus string

// New leads enter as "lead"; later CRM stages move them elsewhere.
const (
	ClientStatusLead ClientStatus = "lead"
)

// Client is the deduplicated record for a prospect, keyed by email.
type Client struct {
	ID          int64        `json:"id"`
	CompanyName *string      `json:"company_name,omitempty"`
	ContactName string       `json:"contact_name"`
	Email       string       `json:"email"`
	Phone       *string      `json:"phone,omitempty"`
	Status      ClientStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewLeadClient builds an unsaved client from a submission. Empty optional
// fields become NULL.
func NewLeadClient(s Submission) *Client {
	return &Client{
		CompanyName: nullString(s.CompanyName),
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       nullString(s.Phone),
		Status:      ClientStatusLead,
	}
}

type ClientRepositoryInterface interface {
	// FindByEmail returns ErrClientNotFound when no row matches exactly.
	FindByEmail(ctx context.Context, email string) (*Client, error)
	// Create fills ID and CreatedAt. It returns ErrEmailAlreadyExists when the
	// store rejects a duplicate email, leaving the surrounding unit of work usable.
	Create(ctx context.Context, c *Client) error
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
