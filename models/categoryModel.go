package models

import (
	"regexp"
	"strings"
)

type Category struct {
	Base
	Name          string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug          string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description   string `gorm:"type:text" json:"description"`
	ImageURL      string `gorm:"size:500" json:"imageUrl"`
	ImagePublicID string `gorm:"size:255" json:"-"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
