package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kirana/app/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Node JS":             "node-js",
		"  Organic   Apples ": "organic-apples",
		"Café au Lait":        "cafe-au-lait",
		"already-sluggy":      "already-sluggy",
	}
	for in, want := range cases {
		assert.Equal(t, want, models.Slugify(in))
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	for _, name := range []string{"Node JS", "Café au Lait", "100% Cotton Shirt"} {
		once := models.Slugify(name)
		assert.Equal(t, once, models.Slugify(once), "slugifying a slug must be a no-op")
	}
}
