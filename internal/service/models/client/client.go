package client

import (
	"strconv"
	"strings"
)

// Client is a customer of the distributor.
type Client struct {
	ID           int64  `json:"id"`
	BusinessName string `json:"businessName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	TaxID        string `json:"taxId"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Locality     string `json:"locality"`
	Neighborhood string `json:"neighborhood"`
	Zone         string `json:"zone"`
	PaymentTerms string `json:"paymentTerms"`
	Status       string `json:"status"`
}

// DisplayName prefers the business name, then the person's full name.
func (c Client) DisplayName() string {
	if name := strings.TrimSpace(c.BusinessName); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.FirstName + " " + c.LastName); name != "" {
		return name
	}

	return "Cliente " + strconv.FormatInt(c.ID, 10)
}

// SearchFields returns the values matched by the client search.
func (c Client) SearchFields() []string {
	return []string{
		c.BusinessName,
		c.FirstName,
		c.LastName,
		c.TaxID,
		c.Address,
		c.Phone,
		c.Locality,
		strconv.FormatInt(c.ID, 10),
	}
}
