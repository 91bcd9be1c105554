package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"github.com/shashiranjanraj/kirana/pkg/validate"
)

const (
	listLimit      = 12
	pageSize       = 6
	relatedLimit   = 2
	maxPhotoBytes  = 1 << 20 // 1 MB
	cacheKeyList   = "kirana:catalog:list"
	cacheKeyCount  = "kirana:catalog:count"
	catalogListTTL = time.Minute
)

// ProductInput carries the writable fields of a product for create/update.
// The slug is never accepted from the caller; it is derived from Name.
type ProductInput struct {
	Name             string  `json:"name" validate:"required,max=32"`
	Description      string  `json:"description" validate:"required,max=2000"`
	Price            float64 `json:"price" validate:"numeric,gte=0"`
	CategoryID       string  `json:"category" validate:"required"`
	Quantity         int     `json:"quantity" validate:"integer,gte=0"`
	Shipping         *bool   `json:"shipping"`
	Photo            []byte  `json:"-"`
	PhotoContentType string  `json:"-"`
}

// PriceRange re-exports the repository bound type for callers.
type PriceRange = repositories.PriceRange

// CatalogService answers every catalog read and write: listing, slug lookup,
// photo retrieval, faceted filtering, pagination, search, related products
// and the create/update/delete operations.
type CatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
}

func NewCatalogService(products repositories.ProductRepository, categories repositories.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// List returns the newest products, capped at 12, with the category
// populated and photo excluded. Results are cached briefly.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveCatalogQuery("list", time.Now())

	var cached []models.Product
	if cache.Get(ctx, cacheKeyList, &cached) {
		return cached, nil
	}

	out, err := s.products.Find(ctx, repositories.ProductQuery{}, repositories.FindOptions{
		SortNewestFirst:  true,
		Limit:            listLimit,
		PopulateCategory: true,
	})
	if err != nil {
		return nil, apperr.Repository(err)
	}

	cache.Set(ctx, cacheKeyList, out, catalogListTTL)
	return out, nil
}

// GetBySlug returns the product with the given slug, category populated.
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	defer metrics.ObserveCatalogQuery("get_by_slug", time.Now())

	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	if p == nil {
		return nil, apperr.NotFound("product")
	}
	if err := s.populateOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Photo returns the stored photo for a product. The returned photo may have
// no data when the product exists but none was uploaded.
func (s *CatalogService) Photo(ctx context.Context, id string) (*models.Photo, error) {
	defer metrics.ObserveCatalogQuery("photo", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}

	photo, err := s.products.FindPhoto(ctx, oid)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	if photo == nil {
		return nil, apperr.NotFound("product")
	}
	return photo, nil
}

// Create validates the input, derives the slug from the name and persists a
// new product.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	defer metrics.ObserveCatalogQuery("create", time.Now())

	p, err := s.buildProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, apperr.Repository(err)
	}
	s.invalidate(ctx)

	p.Photo = models.Photo{} // never echo the blob
	return p, nil
}

// Update replaces the mutable fields of an existing product. The slug is
// recomputed from the new name.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	defer metrics.ObserveCatalogQuery("update", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	existing, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	if existing == nil {
		return nil, apperr.NotFound("product")
	}

	p, err := s.buildProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = oid

	if err := s.products.UpdateByID(ctx, oid, p); err != nil {
		return nil, apperr.Repository(err)
	}
	s.invalidate(ctx)

	p.Photo = models.Photo{}
	return p, nil
}

// Delete removes a product. Deleting an unknown id yields a not-found error
// and leaves the store unchanged.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveCatalogQuery("delete", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("product")
	}

	removed, err := s.products.DeleteByID(ctx, oid)
	if err != nil {
		return apperr.Repository(err)
	}
	if !removed {
		return apperr.NotFound("product")
	}
	s.invalidate(ctx)
	return nil
}

// Filter returns products matching every supplied constraint: category
// membership when categoryIDs is non-empty, and price within the inclusive
// range when given. With no constraints it returns the full catalog.
func (s *CatalogService) Filter(ctx context.Context, categoryIDs []string, price *PriceRange) ([]models.Product, error) {
	defer metrics.ObserveCatalogQuery("filter", time.Now())

	var oids []primitive.ObjectID
	for _, raw := range categoryIDs {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("invalid category id %q", raw))
		}
		oids = append(oids, oid)
	}

	out, err := s.products.Find(ctx,
		repositories.ProductQuery{CategoryIDs: oids, Price: price},
		repositories.FindOptions{SortNewestFirst: true, PopulateCategory: true},
	)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return out, nil
}

// Count returns an estimated total product count. The estimate may lag
// concurrent writes.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	defer metrics.ObserveCatalogQuery("count", time.Now())

	var cached int64
	if cache.Get(ctx, cacheKeyCount, &cached) {
		return cached, nil
	}

	n, err := s.products.EstimatedCount(ctx)
	if err != nil {
		return 0, apperr.Repository(err)
	}
	cache.Set(ctx, cacheKeyCount, n, catalogListTTL)
	return n, nil
}

// ListPage returns page number page of the catalog, newest first, six items
// per page. Page numbers below 1 are clamped to 1.
func (s *CatalogService) ListPage(ctx context.Context, page int64) ([]models.Product, error) {
	defer metrics.ObserveCatalogQuery("list_page", time.Now())

	if page < 1 {
		page = 1
	}

	out, err := s.products.Find(ctx, repositories.ProductQuery{}, repositories.FindOptions{
		SortNewestFirst: true,
		Skip:            (page - 1) * pageSize,
		Limit:           pageSize,
	})
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return out, nil
}

// Search matches keyword case-insensitively as a substring of name or
// description. An empty keyword matches everything.
func (s *CatalogService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	defer metrics.ObserveCatalogQuery("search", time.Now())

	out, err := s.products.Find(ctx,
		repositories.ProductQuery{Keyword: keyword},
		repositories.FindOptions{SortNewestFirst: true},
	)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return out, nil
}

// Related returns up to two other products in the same category.
func (s *CatalogService) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	defer metrics.ObserveCatalogQuery("related", time.Now())

	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	cid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, apperr.NotFound("category")
	}

	out, err := s.products.Find(ctx,
		repositories.ProductQuery{CategoryID: cid, ExcludeID: pid},
		repositories.FindOptions{Limit: relatedLimit, PopulateCategory: true},
	)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return out, nil
}

// ByCategory resolves a category by slug and returns its products.
func (s *CatalogService) ByCategory(ctx context.Context, categorySlug string) (*models.Category, []models.Product, error) {
	defer metrics.ObserveCatalogQuery("by_category", time.Now())

	cat, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, nil, apperr.Repository(err)
	}
	if cat == nil {
		return nil, nil, apperr.NotFound("category")
	}

	products, err := s.products.Find(ctx,
		repositories.ProductQuery{CategoryID: cat.ID},
		repositories.FindOptions{SortNewestFirst: true, PopulateCategory: true},
	)
	if err != nil {
		return nil, nil, apperr.Repository(err)
	}
	return cat, products, nil
}

// buildProduct validates input and assembles a Product with a derived slug.
func (s *CatalogService) buildProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.ValidationFields(errs)
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, apperr.Validation("price must be a finite number")
	}
	if len(in.Photo) > maxPhotoBytes {
		return nil, apperr.Validation("photo must be smaller than 1MB")
	}

	cid, err := primitive.ObjectIDFromHex(in.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id")
	}
	cat, err := s.categories.FindByID(ctx, cid)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	if cat == nil {
		return nil, apperr.Validation("unknown category")
	}

	p := &models.Product{
		Name:        in.Name,
		Slug:        models.Slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  cid,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
	}
	if len(in.Photo) > 0 {
		p.Photo = models.Photo{Data: in.Photo, ContentType: in.PhotoContentType}
	}
	return p, nil
}

func (s *CatalogService) populateOne(ctx context.Context, p *models.Product) error {
	if p.CategoryID.IsZero() {
		return nil
	}
	cat, err := s.categories.FindByID(ctx, p.CategoryID)
	if err != nil {
		return apperr.Repository(err)
	}
	p.Category = cat
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	cache.Del(ctx, cacheKeyList, cacheKeyCount)
}
