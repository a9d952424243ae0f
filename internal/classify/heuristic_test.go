package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jejak-app/jejak/api/internal/report/domain"
)

func TestTextCategory(t *testing.T) {
	cases := []struct {
		name        string
		title, desc string
		want        domain.Category
	}{
		{"road", "", "Jalan berlubang dekat sekolah", domain.CategoryInfrastructure},
		{"trash", "", "Tumpukan sampah di pasar", domain.CategoryCleanliness},
		{"lamp", "", "Lampu taman mati", domain.CategoryLighting},
		{"first rule wins", "", "lampu jalan mati dan sampah menumpuk", domain.CategoryInfrastructure},
		{"title counts", "SAMPAH liar", "bau sekali", domain.CategoryCleanliness},
		{"keyword spans title and description", "jal", "an rusak", domain.CategoryOther},
		{"nothing matches", "", "pohon tumbang", domain.CategoryOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TextCategory(tc.title, tc.desc))
		})
	}
}

func TestLabelCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryInfrastructure, LabelCategory("street sign"))
	assert.Equal(t, domain.CategoryCleanliness, LabelCategory("Trash can, ashcan"))
	assert.Equal(t, domain.CategoryLighting, LabelCategory("table lamp"))
	assert.Equal(t, domain.CategoryOther, LabelCategory("golden retriever"))
}
