package partner

import (
	"time"

	"github.com/nexus/backend/internal/domain/shared"
)

// ClientType distinguishes private customers from businesses
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
)

// Client is a customer that sales are made to
type Client struct {
	shared.BaseEntity
	shared.UserTracked
	FirstName        string           `json:"firstName" validate:"min=2"`
	LastName         string           `json:"lastName" validate:"min=2"`
	Email            string           `json:"email" validate:"email"`
	Phone            string           `json:"phone,omitempty"`
	Address          string           `json:"address,omitempty"`
	City             string           `json:"city,omitempty"`
	PostalCode       string           `json:"postalCode,omitempty"`
	Country          string           `json:"country,omitempty"`
	ClientType       ClientType       `json:"clientType" validate:"oneof=individual company"`
	RegistrationDate shared.Timestamp `json:"registrationDate"`
	Notes            string           `json:"notes,omitempty"`
}

// NewClient returns a client in its initial state
func NewClient() Client {
	return Client{ClientType: ClientTypeIndividual}
}

// Register sets the registration date, called once on creation
func (c *Client) Register(now time.Time) {
	c.RegistrationDate = shared.NewTimestamp(now)
}
