package model

import (
	"time"

	"github.com/google/uuid"
)

// ImageTag labels gallery images for filtering. Tags are independent
// entities; deleting a tag leaves images referencing a dangling ID, which
// readers skip.
type ImageTag struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name" validate:"required,max=50"`
	Color    string `gorm:"type:varchar(20);not null;default:'#888888'" json:"color"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// GalleryImage is an uploaded image. StoragePath is the object-store key
// and never leaves the admin API; public projections expose the URL only.
type GalleryImage struct {
	BaseModel
	Filename    string      `gorm:"type:varchar(255);not null" json:"filename" validate:"required"`
	StoragePath string      `gorm:"type:varchar(512);not null" json:"storage_path"`
	URL         string      `gorm:"type:varchar(512);not null" json:"url"`
	Size        int64       `gorm:"not null;default:0" json:"size"`
	ContentType string      `gorm:"type:varchar(100)" json:"content_type"`
	Caption     string      `gorm:"type:varchar(255)" json:"caption,omitempty"`
	TagIDs      []uuid.UUID `gorm:"type:jsonb;serializer:json" json:"tag_ids"`
	UploadedBy  string      `gorm:"type:varchar(255)" json:"uploaded_by"`
}

// ImageFolder groups images by reference; the same image may appear in
// several folders.
type ImageFolder struct {
	BaseModel
	Name         string      `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	ImageIDs     []uuid.UUID `gorm:"type:jsonb;serializer:json" json:"image_ids"`
	CoverImageID *uuid.UUID  `gorm:"type:uuid" json:"cover_image_id,omitempty"`
	IsPublic     bool        `gorm:"default:false" json:"is_public"`
}

// PublicImage is the customer-facing projection of a gallery image with
// internal fields (uploader, storage path) stripped.
type PublicImage struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	Caption     string    `json:"caption,omitempty"`
	ContentType string    `json:"content_type"`
}

// ToPublic strips internal fields from the image.
func (img *GalleryImage) ToPublic() PublicImage {
	return PublicImage{
		ID:          img.ID,
		Filename:    img.Filename,
		URL:         img.URL,
		Caption:     img.Caption,
		ContentType: img.ContentType,
	}
}

// PublicFolder is the customer-facing projection of a public folder.
type PublicFolder struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Images      []PublicImage `json:"images"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
