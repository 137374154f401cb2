package entities

// Client is the billing contact an invoice may point at. Only the fields the
// invoicing core reads are modelled here.
type Client struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Site is a client location an invoice may point at.
type Site struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}
