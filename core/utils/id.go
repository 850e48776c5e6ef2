package utils

import (
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func GenerateID() string {
	id, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 7)
	if err != nil {
		return ""
	}
	return id
}

// UniqueSlug builds a URL-safe handle from a display name, suffixed with a
// short random id so two users with the same name never collide.
func UniqueSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "user"
	}
	return base + "-" + strings.ToLower(GenerateID())
}
