package model

import "time"

// ClientType discriminates personal and business clients.
type ClientType string

const (
	ClientPerson   ClientType = "person"
	ClientBusiness ClientType = "business"
)

// ContactMethodType enumerates the ways a client can be reached.
type ContactMethodType string

const (
	ContactPhone     ContactMethodType = "phone"
	ContactEmail     ContactMethodType = "email"
	ContactWhatsapp  ContactMethodType = "whatsapp"
	ContactInstagram ContactMethodType = "instagram"
	ContactOtherWay  ContactMethodType = "other"
)

// ContactMethod is one entry of a client's contact list. Exactly one entry
// should be flagged primary; PrimaryContact falls back to the first entry
// when none is.
type ContactMethod struct {
	Type      ContactMethodType `json:"type" validate:"required"`
	Value     string            `json:"value" validate:"required"`
	IsPrimary bool              `json:"is_primary"`
	Notes     string            `json:"notes,omitempty"`
}

// RelationshipType describes how a related person connects to the client.
type RelationshipType string

const (
	RelationshipSpouse  RelationshipType = "spouse"
	RelationshipChild   RelationshipType = "child"
	RelationshipParent  RelationshipType = "parent"
	RelationshipSibling RelationshipType = "sibling"
	RelationshipFriend  RelationshipType = "friend"
	RelationshipOther   RelationshipType = "other"
)

// RelatedPerson is someone connected to the client (for gift reminders
// and order context).
type RelatedPerson struct {
	Name         string           `json:"name" validate:"required"`
	Relationship RelationshipType `json:"relationship"`
	BirthDate    *time.Time       `json:"birth_date,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// SpecialDateType enumerates the kinds of dates the bakery tracks per client.
type SpecialDateType string

const (
	DateBirthday    SpecialDateType = "birthday"
	DateAnniversary SpecialDateType = "anniversary"
	DateCustom      SpecialDateType = "custom"
)

// SpecialDate is a recurring date worth a marketing touchpoint.
type SpecialDate struct {
	Type        SpecialDateType `json:"type" validate:"required,oneof=birthday anniversary custom"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description,omitempty"`
}

// Address is the Brazilian-format client address.
type Address struct {
	CEP         string `json:"cep,omitempty" validate:"omitempty,cep"`
	Estado      string `json:"estado,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Endereco    string `json:"endereco,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
}

// CompanyInfo holds business-client company data.
type CompanyInfo struct {
	LegalName string `json:"legal_name,omitempty"`
	TradeName string `json:"trade_name,omitempty"`
	CNPJ      string `json:"cnpj,omitempty"`
}

// Representative is the contact person of a business client.
type Representative struct {
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Client is a bakery customer, either a person or a business. Business
// clients additionally carry company info and a representative.
type Client struct {
	BaseModel
	Type ClientType `gorm:"type:varchar(10);not null;default:'person'" json:"type" validate:"required,oneof=person business"`
	Name string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	ContactMethods []ContactMethod `gorm:"type:jsonb;serializer:json" json:"contact_methods"`
	Address        *Address        `gorm:"type:jsonb;serializer:json" json:"address,omitempty"`

	// Business only
	CompanyInfo    *CompanyInfo    `gorm:"type:jsonb;serializer:json" json:"company_info,omitempty"`
	Representative *Representative `gorm:"type:jsonb;serializer:json" json:"representative,omitempty"`

	RelatedPersons []RelatedPerson `gorm:"type:jsonb;serializer:json" json:"related_persons"`
	SpecialDates   []SpecialDate   `gorm:"type:jsonb;serializer:json" json:"special_dates"`
	Tags           []string        `gorm:"type:jsonb;serializer:json" json:"tags"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
}

// PrimaryContact returns the contact flagged primary, or the first one
// when no flag is set. Nil when the client has no contact methods.
func (c *Client) PrimaryContact() *ContactMethod {
	for i := range c.ContactMethods {
		if c.ContactMethods[i].IsPrimary {
			return &c.ContactMethods[i]
		}
	}
	if len(c.ContactMethods) > 0 {
		return &c.ContactMethods[0]
	}
	return nil
}

// NextOccurrence returns when the special date next occurs on or after
// the reference time, projecting the stored month/day into the current
// or following year.
func (d SpecialDate) NextOccurrence(from time.Time) time.Time {
	next := time.Date(from.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, from.Location())
	if next.Before(from.Truncate(24 * time.Hour)) {
		next = next.AddDate(1, 0, 0)
	}
	return next
}
