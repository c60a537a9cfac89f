package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryContact(t *testing.T) {
	client := Client{
		ContactMethods: []ContactMethod{
			{Type: ContactEmail, Value: "maria@example.com"},
			{Type: ContactWhatsapp, Value: "+5511999990000", IsPrimary: true},
		},
	}
	primary := client.PrimaryContact()
	assert.NotNil(t, primary)
	assert.Equal(t, ContactWhatsapp, primary.Type)

	// No primary flag: first entry wins
	client.ContactMethods[1].IsPrimary = false
	assert.Equal(t, ContactEmail, client.PrimaryContact().Type)

	// No contacts at all
	empty := Client{}
	assert.Nil(t, empty.PrimaryContact())
}

func TestSpecialDateNextOccurrence(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, time.June, 15, 10, 0, 0, 0, loc)

	// Birthday later this year
	d := SpecialDate{Type: DateBirthday, Date: time.Date(1990, time.September, 3, 0, 0, 0, 0, loc)}
	assert.Equal(t, time.Date(2026, time.September, 3, 0, 0, 0, 0, loc), d.NextOccurrence(from))

	// Anniversary already passed this year rolls to the next
	d = SpecialDate{Type: DateAnniversary, Date: time.Date(2015, time.February, 20, 0, 0, 0, 0, loc)}
	assert.Equal(t, time.Date(2027, time.February, 20, 0, 0, 0, 0, loc), d.NextOccurrence(from))

	// A date landing today counts as today
	d = SpecialDate{Type: DateCustom, Date: time.Date(2000, time.June, 15, 0, 0, 0, 0, loc)}
	assert.Equal(t, time.Date(2026, time.June, 15, 0, 0, 0, 0, loc), d.NextOccurrence(from))
}

func TestGalleryImageToPublic(t *testing.T) {
	img := GalleryImage{
		Filename:    "bolo-chocolate.jpg",
		StoragePath: "gallery/abc_bolo-chocolate.jpg",
		URL:         "https://cdn.example.com/gallery/abc_bolo-chocolate.jpg",
		Caption:     "Bolo de chocolate",
		ContentType: "image/jpeg",
		UploadedBy:  "some-admin-id",
	}

	pub := img.ToPublic()
	assert.Equal(t, img.Filename, pub.Filename)
	assert.Equal(t, img.URL, pub.URL)
	assert.Equal(t, img.Caption, pub.Caption)
}
