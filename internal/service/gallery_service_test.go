package service

import (
	"context"
	"testing"

	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGalleryRepo struct {
	tags    map[uuid.UUID]*model.ImageTag
	images  map[uuid.UUID]*model.GalleryImage
	folders map[uuid.UUID]*model.ImageFolder
}

func newFakeGalleryRepo() *fakeGalleryRepo {
	return &fakeGalleryRepo{
		tags:    map[uuid.UUID]*model.ImageTag{},
		images:  map[uuid.UUID]*model.GalleryImage{},
		folders: map[uuid.UUID]*model.ImageFolder{},
	}
}

func (f *fakeGalleryRepo) CreateTag(tag *model.ImageTag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	f.tags[tag.ID] = tag
	return nil
}

func (f *fakeGalleryRepo) FindAllTags() ([]model.ImageTag, error) {
	var out []model.ImageTag
	for _, t := range f.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeGalleryRepo) FindTagByID(id uuid.UUID) (*model.ImageTag, error) {
	t, ok := f.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeGalleryRepo) UpdateTag(tag *model.ImageTag) error {
	f.tags[tag.ID] = tag
	return nil
}

func (f *fakeGalleryRepo) DeleteTag(id uuid.UUID) error {
	delete(f.tags, id)
	return nil
}

func (f *fakeGalleryRepo) CreateImage(image *model.GalleryImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	f.images[image.ID] = image
	return nil
}

func (f *fakeGalleryRepo) FindAllImages() ([]model.GalleryImage, error) {
	var out []model.GalleryImage
	for _, i := range f.images {
		out = append(out, *i)
	}
	return out, nil
}

func (f *fakeGalleryRepo) FindImageByID(id uuid.UUID) (*model.GalleryImage, error) {
	i, ok := f.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (f *fakeGalleryRepo) FindImagesByIDs(ids []uuid.UUID) ([]model.GalleryImage, error) {
	var out []model.GalleryImage
	for _, id := range ids {
		if i, ok := f.images[id]; ok {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeGalleryRepo) UpdateImage(image *model.GalleryImage) error {
	f.images[image.ID] = image
	return nil
}

func (f *fakeGalleryRepo) DeleteImage(id uuid.UUID) error {
	delete(f.images, id)
	return nil
}

func (f *fakeGalleryRepo) CreateFolder(folder *model.ImageFolder) error {
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}
	f.folders[folder.ID] = folder
	return nil
}

func (f *fakeGalleryRepo) FindAllFolders(publicOnly bool) ([]model.ImageFolder, error) {
	var out []model.ImageFolder
	for _, fd := range f.folders {
		if publicOnly && !fd.IsPublic {
			continue
		}
		out = append(out, *fd)
	}
	return out, nil
}

func (f *fakeGalleryRepo) FindFolderByID(id uuid.UUID) (*model.ImageFolder, error) {
	fd, ok := f.folders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return fd, nil
}

func (f *fakeGalleryRepo) UpdateFolder(folder *model.ImageFolder) error {
	f.folders[folder.ID] = folder
	return nil
}

func (f *fakeGalleryRepo) DeleteFolder(id uuid.UUID) error {
	delete(f.folders, id)
	return nil
}

// fakeObjectStore records uploads in memory.
type fakeObjectStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, data []byte, filename string) (string, string, error) {
	key := "gallery/" + filename
	f.objects[key] = data
	return key, "https://cdn.test/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// Minimal but valid PNG header so content detection passes.
var pngBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

func TestUploadImage(t *testing.T) {
	repo := newFakeGalleryRepo()
	store := newFakeObjectStore()
	svc := NewGalleryService(repo, store)
	actor := testActor()

	req := &UploadImageRequest{
		Filename: "bolo de festa.png",
		Data:     pngBytes,
		Caption:  "Bolo de festa",
	}
	image, err := svc.UploadImage(context.Background(), req, actor)
	require.NoError(t, err)

	assert.Equal(t, "bolo de festa.png", image.Filename)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, int64(len(pngBytes)), image.Size)
	assert.Equal(t, actor.ID.String(), image.UploadedBy)
	assert.Contains(t, store.objects, image.StoragePath)
}

func TestUploadImageRejectsBadPayloads(t *testing.T) {
	svc := NewGalleryService(newFakeGalleryRepo(), newFakeObjectStore())
	actor := testActor()
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, &UploadImageRequest{Filename: "nota.txt", Data: []byte("plain text")}, actor)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.UploadImage(ctx, &UploadImageRequest{Filename: "vazio.png", Data: nil}, actor)
	assert.Error(t, err)

	huge := make([]byte, maxUploadSize+1)
	copy(huge, pngBytes)
	_, err = svc.UploadImage(ctx, &UploadImageRequest{Filename: "gigante.png", Data: huge}, actor)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestDeleteImageCleansFolderReferences(t *testing.T) {
	repo := newFakeGalleryRepo()
	store := newFakeObjectStore()
	svc := NewGalleryService(repo, store)

	image := &model.GalleryImage{Filename: "a.png", StoragePath: "gallery/a.png", URL: "u"}
	require.NoError(t, repo.CreateImage(image))
	other := &model.GalleryImage{Filename: "b.png", StoragePath: "gallery/b.png", URL: "u"}
	require.NoError(t, repo.CreateImage(other))

	folder := &model.ImageFolder{
		Name:         "Casamentos",
		ImageIDs:     []uuid.UUID{image.ID, other.ID},
		CoverImageID: &image.ID,
	}
	require.NoError(t, repo.CreateFolder(folder))

	require.NoError(t, svc.DeleteImage(context.Background(), image.ID))

	stored, _ := repo.FindFolderByID(folder.ID)
	assert.Equal(t, []uuid.UUID{other.ID}, stored.ImageIDs)
	assert.Nil(t, stored.CoverImageID)
	assert.Contains(t, store.deleted, "gallery/a.png")
}

func TestPublicProjectionStripsInternalFields(t *testing.T) {
	repo := newFakeGalleryRepo()
	svc := NewGalleryService(repo, newFakeObjectStore())

	image := &model.GalleryImage{
		Filename:    "vitrine.png",
		StoragePath: "gallery/secret-key.png",
		URL:         "https://cdn.test/gallery/secret-key.png",
		UploadedBy:  "admin-id",
	}
	require.NoError(t, repo.CreateImage(image))

	public := &model.ImageFolder{Name: "Vitrine", ImageIDs: []uuid.UUID{image.ID}, IsPublic: true}
	private := &model.ImageFolder{Name: "Rascunhos", IsPublic: false}
	require.NoError(t, repo.CreateFolder(public))
	require.NoError(t, repo.CreateFolder(private))

	folders, err := svc.GetPublicFolders()
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Vitrine", folders[0].Name)
	require.Len(t, folders[0].Images, 1)
	assert.Equal(t, image.URL, folders[0].Images[0].URL)

	// Private folders 404 through the public lookup
	_, err = svc.GetPublicFolder(private.ID)
	assert.ErrorIs(t, err, ErrFolderNotPublic)
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	repo := newFakeGalleryRepo()
	svc := NewGalleryService(repo, newFakeObjectStore())
	actor := testActor()

	require.NoError(t, svc.CreateTag(&model.ImageTag{Name: "Aniversário"}, actor))
	err := svc.CreateTag(&model.ImageTag{Name: "aniversário"}, actor)
	assert.ErrorIs(t, err, ErrTagNameTaken)
}
