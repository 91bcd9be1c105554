// Package repositories defines the persistence ports for the application and
// their MongoDB implementations. Services depend only on the interfaces so
// tests can swap in fakes.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
)

// PriceRange is an inclusive numeric bound on product price. A nil Min or
// Max leaves that side unbounded.
type PriceRange struct {
	Min *float64
	Max *float64
}

// ProductQuery describes a structured catalog filter. Zero-value fields are
// omitted from the generated query; an empty ProductQuery matches everything.
type ProductQuery struct {
	// CategoryIDs matches products whose category is any of the given ids.
	CategoryIDs []primitive.ObjectID
	// CategoryID matches products in exactly this category.
	CategoryID primitive.ObjectID
	// Price bounds the product price.
	Price *PriceRange
	// Keyword matches name or description, case-insensitively, as a
	// literal substring.
	Keyword string
	// ExcludeID excludes a single product (used for related-product
	// lookups).
	ExcludeID primitive.ObjectID
}

// FindOptions controls projection, ordering and pagination of product reads.
type FindOptions struct {
	SortNewestFirst  bool
	Skip             int64
	Limit            int64
	IncludePhoto     bool
	PopulateCategory bool
}

// ProductRepository is the persistence port for products.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, p *models.Product) error
	// DeleteByID reports whether a document was actually removed.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	Find(ctx context.Context, q ProductQuery, opts FindOptions) ([]models.Product, error)
	EstimatedCount(ctx context.Context) (int64, error)
}

// CategoryRepository is the persistence port for categories.
type CategoryRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
}

// OrderRepository is the persistence port for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
}

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
