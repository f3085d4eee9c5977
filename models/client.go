package models

// MissingClientName is shown wherever a recipe points to a deleted client
const MissingClientName = "Cliente não encontrado"

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"nomeCliente"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
	Logo  string `json:"logo,omitempty"` // data URI
}

func (c Client) GetID() string {
	return c.ID
}

// MissingClient is the placeholder for a dangling Recipe.ClientID
func MissingClient(id string) Client {
	return Client{ID: id, Name: MissingClientName}
}

// ClientPatch carries the fields of a partial update. nil = unchanged
type ClientPatch struct {
	Name  *string `json:"nomeCliente,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"telefone,omitempty"`
	Logo  *string `json:"logo,omitempty"`
}

func (p ClientPatch) Apply(c *Client) {
	setIf(&c.Name, p.Name)
	setIf(&c.Email, p.Email)
	setIf(&c.Phone, p.Phone)
	setIf(&c.Logo, p.Logo)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
