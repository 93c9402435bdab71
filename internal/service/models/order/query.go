package order

// ListQuery represents filter parameters for the order list.
type ListQuery struct {
	Search      string `json:"search,omitempty"`
	ExpiredOnly bool   `json:"expired,omitempty"`
}
