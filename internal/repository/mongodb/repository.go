package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

// ErrNotFound is returned when no live document matches the id.
var ErrNotFound = errors.New("document not found")

const (
	fabricsCollection   = "fabrics"
	summariesCollection = "purchase_summaries"
)

// FabricFilter narrows fabric listings.
type FabricFilter struct {
	Search         string
	IncludeDeleted bool
}

// MongoDBRepository stores fabric purchases and purchase summaries.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}, nil
}

func (r *MongoDBRepository) fabrics() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(fabricsCollection)
}

// EnsureIndexes creates the indexes used by listings and reports.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.fabrics().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "fabricName", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create fabric indexes: %w", err)
	}
	return nil
}

// Create inserts a new fabric, assigning its id and timestamps.
func (r *MongoDBRepository) Create(ctx context.Context, fabric *models.Fabric) error {
	now := r.now().UTC()
	fabric.ID = primitive.NewObjectID()
	fabric.CreatedAt = now
	fabric.UpdatedAt = now

	if _, err := r.fabrics().InsertOne(ctx, fabric); err != nil {
		return fmt.Errorf("failed to insert fabric: %w", err)
	}
	return nil
}

// Find returns one page of fabrics, newest first, and the total match count.
func (r *MongoDBRepository) Find(ctx context.Context, filter FabricFilter, page, limit int) ([]models.Fabric, int64, error) {
	query := fabricQuery(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.fabrics().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query fabrics: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Fabric, 0, limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode fabrics: %w", err)
	}

	total, err := r.fabrics().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count fabrics: %w", err)
	}

	return items, total, nil
}

// FindByID loads a fabric regardless of its deleted flag.
func (r *MongoDBRepository) FindByID(ctx context.Context, id string) (*models.Fabric, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var fabric models.Fabric
	if err := r.fabrics().FindOne(ctx, bson.M{"_id": oid}).Decode(&fabric); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load fabric %s: %w", id, err)
	}
	return &fabric, nil
}

// Update replaces the input and derived fields of a live fabric.
// actualProducedItems is only written when withActual is set.
func (r *MongoDBRepository) Update(ctx context.Context, id string, fabric *models.Fabric, withActual bool) (*models.Fabric, error) {
	set := fabricSetDocument(fabric, withActual)
	set["updatedAt"] = r.now().UTC()
	return r.findOneAndSet(ctx, id, set)
}

// SetActualProduced updates only the produced item count of a live fabric.
func (r *MongoDBRepository) SetActualProduced(ctx context.Context, id string, actual float64) (*models.Fabric, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		"actualProducedItems": actual,
		"updatedAt":           r.now().UTC(),
	})
}

// SoftDelete flags a live fabric as deleted.
func (r *MongoDBRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.fabrics().UpdateOne(ctx, liveByID(oid), bson.M{"$set": bson.M{
		"deleted":   true,
		"updatedAt": r.now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to delete fabric %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCreatedBetween returns live fabrics created in [from, to), oldest first.
func (r *MongoDBRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Fabric, error) {
	query := bson.M{
		"deleted":   bson.M{"$ne": true},
		"createdAt": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.fabrics().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query fabrics for period: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Fabric
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode fabrics for period: %w", err)
	}
	return items, nil
}

// SaveSummary saves a purchase summary snapshot to the database.
func (r *MongoDBRepository) SaveSummary(ctx context.Context, summary models.PurchaseSummary) error {
	collection := r.client.Database(r.dbName).Collection(summariesCollection)
	if _, err := collection.InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert purchase summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*models.Fabric, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Fabric
	err = r.fabrics().FindOneAndUpdate(ctx, liveByID(oid), bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update fabric %s: %w", id, err)
	}
	return &updated, nil
}

func liveByID(oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "deleted": bson.M{"$ne": true}}
}

func fabricQuery(filter FabricFilter) bson.M {
	query := bson.M{}
	if !filter.IncludeDeleted {
		query["deleted"] = bson.M{"$ne": true}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query["fabricName"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	return query
}

func fabricSetDocument(f *models.Fabric, withActual bool) bson.M {
	set := bson.M{
		"fabricName":             f.FabricName,
		"fabricHeight":           f.FabricHeight,
		"pricePerYard":           f.PricePerYard,
		"apparelLengthInches":    f.ApparelLengthInches,
		"inputMode":              f.InputMode,
		"numYards":               f.NumYards,
		"numRolls":               f.NumRolls,
		"yardsPerRoll":           f.YardsPerRoll,
		"receiveDiscount":        f.ReceiveDiscount,
		"discountType":           f.DiscountType,
		"overallDiscountAmount":  f.OverallDiscountAmount,
		"discountedPricePerYard": f.DiscountedPricePerYard,
		"discountedPricePerRoll": f.DiscountedPricePerRoll,
		"originalAmount":         f.OriginalAmount,
		"discountedAmount":       f.DiscountedAmount,
		"totalAmount":            f.TotalAmount,
		"expectedItems":          f.ExpectedItems,
	}
	if withActual {
		set["actualProducedItems"] = f.ActualProducedItems
	}
	return set
}
