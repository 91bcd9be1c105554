package models

import (
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is a product image stored inline on the product document.
// It is excluded from JSON and from catalog list projections; clients fetch
// it through the dedicated photo endpoint.
type Photo struct {
	Data        []byte `bson:"data,omitempty" json:"-"`
	ContentType string `bson:"content_type,omitempty" json:"-"`
}

// Product is a catalog item. Slug is derived from Name and unique.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required,max=32"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description" validate:"required,max=2000"`
	Price       float64            `bson:"price" json:"price" validate:"required,numeric,gte=0"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Shipping    *bool              `bson:"shipping,omitempty" json:"shipping,omitempty"`
	Photo       Photo              `bson:"photo,omitempty" json:"-"`

	// Category is populated on demand from CategoryID; never persisted.
	Category *Category `bson:"-" json:"category,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Slugify derives the URL slug for a product name.
func Slugify(name string) string {
	return slug.Make(name)
}

// Category groups products and is addressable by slug.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name" validate:"required,max=32"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
