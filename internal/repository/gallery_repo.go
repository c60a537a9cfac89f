package repository

import (
	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryRepository interface {
	// Tags
	CreateTag(tag *model.ImageTag) error
	FindAllTags() ([]model.ImageTag, error)
	FindTagByID(id uuid.UUID) (*model.ImageTag, error)
	UpdateTag(tag *model.ImageTag) error
	DeleteTag(id uuid.UUID) error

	// Images
	CreateImage(image *model.GalleryImage) error
	FindAllImages() ([]model.GalleryImage, error)
	FindImageByID(id uuid.UUID) (*model.GalleryImage, error)
	FindImagesByIDs(ids []uuid.UUID) ([]model.GalleryImage, error)
	UpdateImage(image *model.GalleryImage) error
	DeleteImage(id uuid.UUID) error

	// Folders
	CreateFolder(folder *model.ImageFolder) error
	FindAllFolders(publicOnly bool) ([]model.ImageFolder, error)
	FindFolderByID(id uuid.UUID) (*model.ImageFolder, error)
	UpdateFolder(folder *model.ImageFolder) error
	DeleteFolder(id uuid.UUID) error
}

type galleryRepo struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) GalleryRepository {
	return &galleryRepo{db}
}

func (r *galleryRepo) CreateTag(tag *model.ImageTag) error {
	return r.db.Create(tag).Error
}

func (r *galleryRepo) FindAllTags() ([]model.ImageTag, error) {
	var tags []model.ImageTag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *galleryRepo) FindTagByID(id uuid.UUID) (*model.ImageTag, error) {
	var tag model.ImageTag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *galleryRepo) UpdateTag(tag *model.ImageTag) error {
	return r.db.Save(tag).Error
}

func (r *galleryRepo) DeleteTag(id uuid.UUID) error {
	return r.db.Delete(&model.ImageTag{}, "id = ?", id).Error
}

func (r *galleryRepo) CreateImage(image *model.GalleryImage) error {
	return r.db.Create(image).Error
}

func (r *galleryRepo) FindAllImages() ([]model.GalleryImage, error) {
	var images []model.GalleryImage
	err := r.db.Order("created_at DESC").Find(&images).Error
	return images, err
}

func (r *galleryRepo) FindImageByID(id uuid.UUID) (*model.GalleryImage, error) {
	var image model.GalleryImage
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *galleryRepo) FindImagesByIDs(ids []uuid.UUID) ([]model.GalleryImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []model.GalleryImage
	err := r.db.Where("id IN ?", ids).Find(&images).Error
	return images, err
}

func (r *galleryRepo) UpdateImage(image *model.GalleryImage) error {
	return r.db.Save(image).Error
}

func (r *galleryRepo) DeleteImage(id uuid.UUID) error {
	return r.db.Delete(&model.GalleryImage{}, "id = ?", id).Error
}

func (r *galleryRepo) CreateFolder(folder *model.ImageFolder) error {
	return r.db.Create(folder).Error
}

func (r *galleryRepo) FindAllFolders(publicOnly bool) ([]model.ImageFolder, error) {
	query := r.db.Order("name ASC")
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	var folders []model.ImageFolder
	err := query.Find(&folders).Error
	return folders, err
}

func (r *galleryRepo) FindFolderByID(id uuid.UUID) (*model.ImageFolder, error) {
	var folder model.ImageFolder
	if err := r.db.First(&folder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *galleryRepo) UpdateFolder(folder *model.ImageFolder) error {
	return r.db.Save(folder).Error
}

func (r *galleryRepo) DeleteFolder(id uuid.UUID) error {
	return r.db.Delete(&model.ImageFolder{}, "id = ?", id).Error
}
