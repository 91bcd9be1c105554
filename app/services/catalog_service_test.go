package services_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
)

// fakeProductRepo is an in-memory ProductRepository that honors the same
// query semantics as the Mongo implementation.
type fakeProductRepo struct {
	products   []models.Product
	categories *fakeCategoryRepo
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			p.Photo = models.Photo{}
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			p := f.products[i]
			p.Photo = models.Photo{}
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			photo := f.products[i].Photo
			return &photo, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	for i := range f.products {
		if f.products[i].ID == id {
			updated := *p
			updated.ID = id
			updated.CreatedAt = f.products[i].CreatedAt
			f.products[i] = updated
			return nil
		}
	}
	return nil
}

func (f *fakeProductRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) Find(ctx context.Context, q repositories.ProductQuery, opts repositories.FindOptions) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if !matches(p, q) {
			continue
		}
		if !opts.IncludePhoto {
			p.Photo = models.Photo{}
		}
		if opts.PopulateCategory && f.categories != nil {
			p.Category, _ = f.categories.FindByID(ctx, p.CategoryID)
		}
		out = append(out, p)
	}

	if opts.SortNewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			out = nil
		} else {
			out = out[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func matches(p models.Product, q repositories.ProductQuery) bool {
	if len(q.CategoryIDs) > 0 {
		found := false
		for _, id := range q.CategoryIDs {
			if p.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	} else if !q.CategoryID.IsZero() && p.CategoryID != q.CategoryID {
		return false
	}
	if q.Price != nil {
		if q.Price.Min != nil && p.Price < *q.Price.Min {
			return false
		}
		if q.Price.Max != nil && p.Price > *q.Price.Max {
			return false
		}
	}
	if q.Keyword != "" {
		kw := strings.ToLower(q.Keyword)
		if !strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			return false
		}
	}
	if !q.ExcludeID.IsZero() && p.ID == q.ExcludeID {
		return false
	}
	return true
}

func (f *fakeProductRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (f *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func seedCatalog(nPerCategory int) (*fakeProductRepo, *fakeCategoryRepo, []models.Category) {
	cats := []models.Category{
		{ID: primitive.NewObjectID(), Name: "Fruit", Slug: "fruit"},
		{ID: primitive.NewObjectID(), Name: "Dairy", Slug: "dairy"},
	}
	catRepo := &fakeCategoryRepo{categories: cats}
	products := &fakeProductRepo{categories: catRepo}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	n := 0
	for _, cat := range cats {
		for i := 0; i < nPerCategory; i++ {
			n++
			name := cat.Name + " item " + string(rune('A'+i))
			products.products = append(products.products, models.Product{
				ID:          primitive.NewObjectID(),
				Name:        name,
				Slug:        models.Slugify(name),
				Description: "fresh " + strings.ToLower(cat.Name),
				Price:       float64(n * 10),
				CategoryID:  cat.ID,
				CreatedAt:   base.Add(time.Duration(n) * time.Hour),
			})
		}
	}
	return products, catRepo, cats
}

func TestListCapsAndPopulatesCategory(t *testing.T) {
	products, categories, _ := seedCatalog(8) // 16 products
	svc := services.NewCatalogService(products, categories)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 12)

	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].CreatedAt.After(out[i-1].CreatedAt), "must be newest first")
	}
	for _, p := range out {
		require.NotNil(t, p.Category)
		assert.Equal(t, p.CategoryID, p.Category.ID)
		assert.Empty(t, p.Photo.Data)
	}
}

func TestGetBySlug(t *testing.T) {
	products, categories, _ := seedCatalog(2)
	svc := services.NewCatalogService(products, categories)

	want := products.products[0]
	got, err := svc.GetBySlug(context.Background(), want.Slug)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	require.NotNil(t, got.Category)

	_, err = svc.GetBySlug(context.Background(), "no-such-slug")
	assert.True(t, apperr.IsNotFound(err))
}

func TestFilterConjunctionAndWeakening(t *testing.T) {
	products, categories, cats := seedCatalog(5) // prices 10..100
	svc := services.NewCatalogService(products, categories)
	ctx := context.Background()

	lo, hi := 20.0, 60.0
	catIDs := []string{cats[0].ID.Hex()}

	both, err := svc.Filter(ctx, catIDs, &services.PriceRange{Min: &lo, Max: &hi})
	require.NoError(t, err)
	for _, p := range both {
		assert.Equal(t, cats[0].ID, p.CategoryID)
		assert.GreaterOrEqual(t, p.Price, lo)
		assert.LessOrEqual(t, p.Price, hi)
	}

	catOnly, err := svc.Filter(ctx, catIDs, nil)
	require.NoError(t, err)
	priceOnly, err := svc.Filter(ctx, nil, &services.PriceRange{Min: &lo, Max: &hi})
	require.NoError(t, err)
	all, err := svc.Filter(ctx, nil, nil)
	require.NoError(t, err)

	// Dropping a constraint can only widen the result.
	assert.GreaterOrEqual(t, len(catOnly), len(both))
	assert.GreaterOrEqual(t, len(priceOnly), len(both))
	assert.Len(t, all, len(products.products))
}

func TestListPagePartitionsCatalog(t *testing.T) {
	products, categories, _ := seedCatalog(10) // 20 products
	svc := services.NewCatalogService(products, categories)
	ctx := context.Background()

	seen := map[primitive.ObjectID]bool{}
	for page := int64(1); ; page++ {
		out, err := svc.ListPage(ctx, page)
		require.NoError(t, err)
		if len(out) == 0 {
			break
		}
		for _, p := range out {
			assert.False(t, seen[p.ID], "pages must not overlap")
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, len(products.products), "pages must cover the whole catalog")

	// Page numbers below 1 are clamped to the first page.
	first, err := svc.ListPage(ctx, 1)
	require.NoError(t, err)
	clamped, err := svc.ListPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, clamped)
}

func TestSearch(t *testing.T) {
	products, categories, _ := seedCatalog(3)
	svc := services.NewCatalogService(products, categories)
	ctx := context.Background()

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(products.products), "empty keyword matches everything")

	out, err := svc.Search(ctx, "DAIRY")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Less(t, len(out), len(all))
	for _, p := range out {
		haystack := strings.ToLower(p.Name + " " + p.Description)
		assert.Contains(t, haystack, "dairy")
	}
}

func TestRelatedExcludesSelf(t *testing.T) {
	products, categories, cats := seedCatalog(4)
	svc := services.NewCatalogService(products, categories)

	self := products.products[0]
	out, err := svc.Related(context.Background(), self.ID.Hex(), cats[0].ID.Hex())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), 2)
	require.NotEmpty(t, out)
	for _, p := range out {
		assert.NotEqual(t, self.ID, p.ID)
		assert.Equal(t, cats[0].ID, p.CategoryID)
	}
}

func TestByCategory(t *testing.T) {
	products, categories, cats := seedCatalog(3)
	svc := services.NewCatalogService(products, categories)
	ctx := context.Background()

	cat, out, err := svc.ByCategory(ctx, "fruit")
	require.NoError(t, err)
	assert.Equal(t, cats[0].ID, cat.ID)
	assert.Len(t, out, 3)
	for _, p := range out {
		assert.Equal(t, cats[0].ID, p.CategoryID)
	}

	_, _, err = svc.ByCategory(ctx, "no-such-category")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteUnknownID(t *testing.T) {
	products, categories, _ := seedCatalog(2)
	svc := services.NewCatalogService(products, categories)

	before := len(products.products)
	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsNotFound(err))
	assert.Len(t, products.products, before, "store must be unchanged")

	err = svc.Delete(context.Background(), products.products[0].ID.Hex())
	require.NoError(t, err)
	assert.Len(t, products.products, before-1)
}

func TestCreateDerivesSlugAndValidates(t *testing.T) {
	products, categories, cats := seedCatalog(1)
	svc := services.NewCatalogService(products, categories)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.ProductInput{
		Name:        "Organic Red Apples",
		Description: "crisp and sweet",
		Price:       4.99,
		CategoryID:  cats[0].ID.Hex(),
		Quantity:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, "organic-red-apples", created.Slug)
	assert.Equal(t, created.Slug, models.Slugify(created.Slug), "stored slug must be a fixed point")

	_, err = svc.Create(ctx, services.ProductInput{
		Description: "missing name",
		CategoryID:  cats[0].ID.Hex(),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, services.ProductInput{
		Name:        "Oversized",
		Description: "photo too big",
		Price:       1,
		CategoryID:  cats[0].ID.Hex(),
		Photo:       make([]byte, 1<<20+1),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, services.ProductInput{
		Name:        "Orphan",
		Description: "unknown category",
		Price:       1,
		CategoryID:  primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateRecomputesSlug(t *testing.T) {
	products, categories, cats := seedCatalog(1)
	svc := services.NewCatalogService(products, categories)

	target := products.products[0]
	updated, err := svc.Update(context.Background(), target.ID.Hex(), services.ProductInput{
		Name:        "Renamed Thing",
		Description: "still fresh",
		Price:       2.50,
		CategoryID:  cats[0].ID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed-thing", updated.Slug)

	_, err = svc.Update(context.Background(), primitive.NewObjectID().Hex(), services.ProductInput{
		Name:        "Ghost",
		Description: "no such product",
		Price:       1,
		CategoryID:  cats[0].ID.Hex(),
	})
	assert.True(t, apperr.IsNotFound(err))
}
