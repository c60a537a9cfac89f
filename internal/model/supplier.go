package model

// Supplier is a vendor of ingredients or packaging. Address fields follow
// the Brazilian format used across the dashboard.
type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person,omitempty"`
	Phone         string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email         string `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`

	// Brazilian address structure
	CEP         string `gorm:"type:varchar(10)" json:"cep,omitempty" validate:"omitempty,cep"`
	Estado      string `gorm:"type:varchar(2)" json:"estado,omitempty"`
	Cidade      string `gorm:"type:varchar(100)" json:"cidade,omitempty"`
	Bairro      string `gorm:"type:varchar(100)" json:"bairro,omitempty"`
	Endereco    string `gorm:"type:varchar(255)" json:"endereco,omitempty"`
	Numero      string `gorm:"type:varchar(20)" json:"numero,omitempty"`
	Complemento string `gorm:"type:varchar(255)" json:"complemento,omitempty"`

	// CNPJ or CPF
	CpfCnpj           string `gorm:"type:varchar(20)" json:"cpf_cnpj,omitempty"`
	InscricaoEstadual string `gorm:"type:varchar(30)" json:"inscricao_estadual,omitempty"`

	Rating     int      `gorm:"not null;default:3" json:"rating" validate:"omitempty,min=1,max=5"`
	Categories []string `gorm:"type:jsonb;serializer:json" json:"categories"`
	IsActive   bool     `gorm:"default:true" json:"is_active"`
	Notes      string   `gorm:"type:text" json:"notes,omitempty"`
}

// ClampRating forces the rating into the 1-5 range, defaulting to 3 when unset.
func ClampRating(rating int) int {
	if rating == 0 {
		return 3
	}
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
