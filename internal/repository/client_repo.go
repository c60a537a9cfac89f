package repository

import (
	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientFilters narrows client listings.
type ClientFilters struct {
	Type       model.ClientType
	Search     string
	Tag        string
	ActiveOnly bool
}

type ClientRepository interface {
	Create(client *model.Client) error
	FindAll(filters ClientFilters) ([]model.Client, error)
	FindByID(id uuid.UUID) (*model.Client, error)
	Update(client *model.Client) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(client *model.Client) error {
	return r.db.Create(client).Error
}

func (r *clientRepo) FindAll(filters ClientFilters) ([]model.Client, error) {
	query := r.db.Order("name ASC")

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.Tag != "" {
		// Tags live in a jsonb array column
		query = query.Where("tags @> ?", `["`+filters.Tag+`"]`)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var clients []model.Client
	err := query.Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindByID(id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(client *model.Client) error {
	return r.db.Save(client).Error
}

func (r *clientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Client{}, "id = ?", id).Error
}

func (r *clientRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Client{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
