package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/kirana/app/models"
)

// MongoProductRepository implements ProductRepository on a MongoDB
// collection.
type MongoProductRepository struct {
	coll       *mongo.Collection
	categories CategoryRepository
}

// NewMongoProductRepository creates the repository. categories is used to
// populate the Category field when FindOptions.PopulateCategory is set.
func NewMongoProductRepository(db *mongo.Database, categories CategoryRepository) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection("products"), categories: categories}
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	opts := options.FindOne().SetProjection(bson.M{"photo": 0})

	var p models.Product
	err := r.coll.FindOne(ctx, filter, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("products: find one: %w", err)
	}
	return &p, nil
}

// FindPhoto fetches only the photo subdocument of a product.
func (r *MongoProductRepository) FindPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	opts := options.FindOne().SetProjection(bson.M{"photo": 1})

	var doc struct {
		Photo models.Photo `bson:"photo"`
	}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("products: find photo: %w", err)
	}
	return &doc.Photo, nil
}

func (r *MongoProductRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"quantity":    p.Quantity,
		"updated_at":  p.UpdatedAt,
	}
	if p.Shipping != nil {
		set["shipping"] = *p.Shipping
	}
	if len(p.Photo.Data) > 0 {
		set["photo"] = p.Photo
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("products: delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoProductRepository) Find(ctx context.Context, q ProductQuery, fo FindOptions) ([]models.Product, error) {
	opts := options.Find()
	if !fo.IncludePhoto {
		opts.SetProjection(bson.M{"photo": 0})
	}
	if fo.SortNewestFirst {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	if fo.Skip > 0 {
		opts.SetSkip(fo.Skip)
	}
	if fo.Limit > 0 {
		opts.SetLimit(fo.Limit)
	}

	cur, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}

	if fo.PopulateCategory && len(out) > 0 {
		if err := r.populateCategories(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// populateCategories resolves distinct category ids in one query and attaches
// the matching Category to each product.
func (r *MongoProductRepository) populateCategories(ctx context.Context, products []models.Product) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, p := range products {
		if !p.CategoryID.IsZero() && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cats, err := r.categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	for i := range products {
		products[i].Category = byID[products[i].CategoryID]
	}
	return nil
}

func (r *MongoProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	n, err := r.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return n, nil
}
