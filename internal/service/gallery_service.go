package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/storage"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrFolderNotPublic  = errors.New("folder is not public")
	ErrTagNameTaken     = errors.New("a tag with this name already exists")
	ErrCoverNotInFolder = errors.New("cover image must belong to the folder")
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type GalleryService interface {
	UploadImage(ctx context.Context, req *UploadImageRequest, actor *model.User) (*model.GalleryImage, error)
	UpdateImage(id uuid.UUID, caption string, tagIDs []uuid.UUID, actor *model.User) (*model.GalleryImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
	GetImage(id uuid.UUID) (*model.GalleryImage, error)
	GetImages(tagID *uuid.UUID) ([]model.GalleryImage, error)

	CreateTag(req *model.ImageTag, actor *model.User) error
	UpdateTag(id uuid.UUID, req *model.ImageTag, actor *model.User) (*model.ImageTag, error)
	DeleteTag(id uuid.UUID) error
	GetTags() ([]model.ImageTag, error)

	CreateFolder(req *model.ImageFolder, actor *model.User) error
	UpdateFolder(id uuid.UUID, req *model.ImageFolder, actor *model.User) (*model.ImageFolder, error)
	DeleteFolder(id uuid.UUID) error
	GetFolders() ([]model.ImageFolder, error)
	GetFolder(id uuid.UUID) (*model.ImageFolder, error)

	GetPublicFolders() ([]model.PublicFolder, error)
	GetPublicFolder(id uuid.UUID) (*model.PublicFolder, error)
}

// UploadImageRequest carries the raw upload bytes plus metadata.
type UploadImageRequest struct {
	Filename string
	Data     []byte
	Caption  string
	TagIDs   []uuid.UUID
}

type galleryService struct {
	galleryRepo repository.GalleryRepository
	store       storage.ObjectStore
}

func NewGalleryService(galleryRepo repository.GalleryRepository, store storage.ObjectStore) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		store:       store,
	}
}

// UploadImage validates the payload, pushes the bytes to object storage
// under a collision-free key and records the metadata row.
func (s *galleryService) UploadImage(ctx context.Context, req *UploadImageRequest, actor *model.User) (*model.GalleryImage, error) {
	if len(req.Data) == 0 {
		return nil, errors.New("empty upload")
	}
	if len(req.Data) > maxUploadSize {
		return nil, ErrImageTooLarge
	}

	contentType := mime.TypeByExtension(filepath.Ext(req.Filename))
	if contentType == "" {
		contentType = http.DetectContentType(req.Data)
	}
	if !allowedImageTypes[contentType] {
		return nil, ErrUnsupportedImage
	}

	if err := s.checkTags(req.TagIDs); err != nil {
		return nil, err
	}

	// Prefix the key with a UUID so repeated filenames never collide
	storedName := uuid.New().String() + "_" + sanitizeFilename(req.Filename)
	key, url, err := s.store.Upload(ctx, req.Data, storedName)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	image := &model.GalleryImage{
		Filename:    req.Filename,
		StoragePath: key,
		URL:         url,
		Size:        int64(len(req.Data)),
		ContentType: contentType,
		Caption:     req.Caption,
		TagIDs:      req.TagIDs,
		UploadedBy:  actor.ID.String(),
	}
	image.CreatedBy = actor.ID.String()
	image.UpdatedBy = actor.ID.String()

	if err := s.galleryRepo.CreateImage(image); err != nil {
		// Orphaned object, best effort removal
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return image, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

func (s *galleryService) checkTags(tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := s.galleryRepo.FindTagByID(tagID); err != nil {
			return fmt.Errorf("%w: %s", ErrTagNotFound, tagID)
		}
	}
	return nil
}

func (s *galleryService) UpdateImage(id uuid.UUID, caption string, tagIDs []uuid.UUID, actor *model.User) (*model.GalleryImage, error) {
	image, err := s.galleryRepo.FindImageByID(id)
	if err != nil {
		return nil, ErrImageNotFound
	}
	if err := s.checkTags(tagIDs); err != nil {
		return nil, err
	}

	image.Caption = caption
	image.TagIDs = tagIDs
	image.UpdatedBy = actor.ID.String()

	if err := s.galleryRepo.UpdateImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

// DeleteImage removes the metadata row, the stored object and every folder
// reference to the image.
func (s *galleryService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := s.galleryRepo.FindImageByID(id)
	if err != nil {
		return ErrImageNotFound
	}

	if err := s.galleryRepo.DeleteImage(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, image.StoragePath); err != nil {
		return fmt.Errorf("image record deleted but object removal failed: %w", err)
	}

	folders, err := s.galleryRepo.FindAllFolders(false)
	if err != nil {
		return nil
	}
	for i := range folders {
		if !removeImageRef(&folders[i], id) {
			continue
		}
		_ = s.galleryRepo.UpdateFolder(&folders[i])
	}
	return nil
}

func removeImageRef(folder *model.ImageFolder, imageID uuid.UUID) bool {
	changed := false
	kept := folder.ImageIDs[:0]
	for _, ref := range folder.ImageIDs {
		if ref == imageID {
			changed = true
			continue
		}
		kept = append(kept, ref)
	}
	folder.ImageIDs = kept
	if folder.CoverImageID != nil && *folder.CoverImageID == imageID {
		folder.CoverImageID = nil
		changed = true
	}
	return changed
}

func (s *galleryService) GetImage(id uuid.UUID) (*model.GalleryImage, error) {
	image, err := s.galleryRepo.FindImageByID(id)
	if err != nil {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *galleryService) GetImages(tagID *uuid.UUID) ([]model.GalleryImage, error) {
	images, err := s.galleryRepo.FindAllImages()
	if err != nil {
		return nil, err
	}
	if tagID == nil {
		return images, nil
	}

	var filtered []model.GalleryImage
	for _, img := range images {
		for _, t := range img.TagIDs {
			if t == *tagID {
				filtered = append(filtered, img)
				break
			}
		}
	}
	return filtered, nil
}

func (s *galleryService) CreateTag(req *model.ImageTag, actor *model.User) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	tags, err := s.galleryRepo.FindAllTags()
	if err == nil {
		for _, t := range tags {
			if strings.EqualFold(t.Name, req.Name) {
				return ErrTagNameTaken
			}
		}
	}

	if req.Color == "" {
		req.Color = "#888888"
	}
	req.IsActive = true
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()
	return s.galleryRepo.CreateTag(req)
}

func (s *galleryService) UpdateTag(id uuid.UUID, req *model.ImageTag, actor *model.User) (*model.ImageTag, error) {
	tag, err := s.galleryRepo.FindTagByID(id)
	if err != nil {
		return nil, ErrTagNotFound
	}

	tag.Name = req.Name
	if req.Color != "" {
		tag.Color = req.Color
	}
	tag.IsActive = req.IsActive
	tag.UpdatedBy = actor.ID.String()

	if errs := validator.ValidateStruct(tag); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.galleryRepo.UpdateTag(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *galleryService) DeleteTag(id uuid.UUID) error {
	if _, err := s.galleryRepo.FindTagByID(id); err != nil {
		return ErrTagNotFound
	}
	return s.galleryRepo.DeleteTag(id)
}

func (s *galleryService) GetTags() ([]model.ImageTag, error) {
	return s.galleryRepo.FindAllTags()
}

func (s *galleryService) CreateFolder(req *model.ImageFolder, actor *model.User) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := s.checkFolderRefs(req); err != nil {
		return err
	}

	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()
	return s.galleryRepo.CreateFolder(req)
}

func (s *galleryService) UpdateFolder(id uuid.UUID, req *model.ImageFolder, actor *model.User) (*model.ImageFolder, error) {
	folder, err := s.galleryRepo.FindFolderByID(id)
	if err != nil {
		return nil, ErrFolderNotFound
	}

	folder.Name = req.Name
	folder.Description = req.Description
	folder.ImageIDs = req.ImageIDs
	folder.CoverImageID = req.CoverImageID
	folder.IsPublic = req.IsPublic
	folder.UpdatedBy = actor.ID.String()

	if errs := validator.ValidateStruct(folder); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := s.checkFolderRefs(folder); err != nil {
		return nil, err
	}

	if err := s.galleryRepo.UpdateFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *galleryService) checkFolderRefs(folder *model.ImageFolder) error {
	if folder.CoverImageID == nil {
		return nil
	}
	for _, imgID := range folder.ImageIDs {
		if imgID == *folder.CoverImageID {
			return nil
		}
	}
	return ErrCoverNotInFolder
}

func (s *galleryService) DeleteFolder(id uuid.UUID) error {
	if _, err := s.galleryRepo.FindFolderByID(id); err != nil {
		return ErrFolderNotFound
	}
	// Images survive folder deletion; folders only hold references
	return s.galleryRepo.DeleteFolder(id)
}

func (s *galleryService) GetFolders() ([]model.ImageFolder, error) {
	return s.galleryRepo.FindAllFolders(false)
}

func (s *galleryService) GetFolder(id uuid.UUID) (*model.ImageFolder, error) {
	folder, err := s.galleryRepo.FindFolderByID(id)
	if err != nil {
		return nil, ErrFolderNotFound
	}
	return folder, nil
}

// GetPublicFolders projects every public folder for the unauthenticated
// site, with uploader and storage details stripped.
func (s *galleryService) GetPublicFolders() ([]model.PublicFolder, error) {
	folders, err := s.galleryRepo.FindAllFolders(true)
	if err != nil {
		return nil, err
	}

	public := make([]model.PublicFolder, 0, len(folders))
	for i := range folders {
		pf, err := s.projectFolder(&folders[i])
		if err != nil {
			return nil, err
		}
		public = append(public, *pf)
	}
	return public, nil
}

func (s *galleryService) GetPublicFolder(id uuid.UUID) (*model.PublicFolder, error) {
	folder, err := s.galleryRepo.FindFolderByID(id)
	if err != nil {
		return nil, ErrFolderNotFound
	}
	if !folder.IsPublic {
		return nil, ErrFolderNotPublic
	}
	return s.projectFolder(folder)
}

func (s *galleryService) projectFolder(folder *model.ImageFolder) (*model.PublicFolder, error) {
	images, err := s.galleryRepo.FindImagesByIDs(folder.ImageIDs)
	if err != nil {
		return nil, err
	}

	// Preserve the folder's ordering; dangling references are skipped
	byID := make(map[uuid.UUID]*model.GalleryImage, len(images))
	for i := range images {
		byID[images[i].ID] = &images[i]
	}
	publicImages := make([]model.PublicImage, 0, len(folder.ImageIDs))
	for _, imgID := range folder.ImageIDs {
		if img, ok := byID[imgID]; ok {
			publicImages = append(publicImages, img.ToPublic())
		}
	}

	updatedAt := folder.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	return &model.PublicFolder{
		ID:          folder.ID,
		Name:        folder.Name,
		Description: folder.Description,
		Images:      publicImages,
		UpdatedAt:   updatedAt,
	}, nil
}
