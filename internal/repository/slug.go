package repository

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// uniqueSlug derives a URL-safe slug from name and resolves collisions with a
// numeric suffix (name, name-1, name-2, ...).
func uniqueSlug(db *gorm.DB, table interface{}, name string) (string, error) {
	base := slug.Make(name)
	candidate := base
	counter := 1

	for {
		var count int64
		if err := db.Model(table).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
