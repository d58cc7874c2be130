package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	"github.com/murtaza192168/inventory-supplier-management/pkg/business"
)

// SupplierRepository implements domain.SupplierRepository
type SupplierRepository struct {
	collection     *mongo.Collection
	businessHelper *business.RepositoryHelper
}

// NewSupplierRepository creates a new SupplierRepository
func NewSupplierRepository(db *mongo.Database) *SupplierRepository {
	collection := db.Collection("suppliers")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "supplierId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "name", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "contact", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &SupplierRepository{
		collection:     collection,
		businessHelper: business.NewRepositoryHelper(false),
	}
}

// Save persists a supplier. Updates are version-checked: the write only
// lands when the stored version still matches the one that was read.
func (r *SupplierRepository) Save(ctx context.Context, supplier *domain.Supplier) error {
	supplier.UpdatedAt = time.Now().UTC()

	if supplier.ID.IsZero() {
		supplier.ID = primitive.NewObjectID()
		_, err := r.collection.InsertOne(ctx, supplier)
		if err != nil {
			supplier.ID = primitive.NilObjectID
			return err
		}
		return nil
	}

	current := supplier.Version
	supplier.Version = current + 1

	result, err := r.collection.ReplaceOne(ctx, bson.M{
		"_id":     supplier.ID,
		"version": current,
	}, supplier)
	if err != nil {
		supplier.Version = current
		return err
	}
	if result.MatchedCount == 0 {
		supplier.Version = current
		return domain.ErrVersionConflict
	}
	return nil
}

// FindByID retrieves a supplier by its id within a business
func (r *SupplierRepository) FindByID(ctx context.Context, businessID, supplierID string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	filter := bson.M{
		"businessId": businessID,
		"supplierId": supplierID,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.businessHelper.ValidateOwnership(ctx, supplier.BusinessID); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByNameOrContact looks for a supplier with the same name or contact
func (r *SupplierRepository) FindByNameOrContact(ctx context.Context, businessID, name, contact string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	filter := bson.M{
		"businessId": businessID,
		"$or": []bson.M{
			{"name": name},
			{"contact": contact},
		},
	}

	err := r.collection.FindOne(ctx, filter).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByBusiness retrieves suppliers for a business
func (r *SupplierRepository) FindByBusiness(ctx context.Context, businessID string, filter domain.SupplierFilter, pagination domain.Pagination) ([]*domain.Supplier, error) {
	mongoFilter := r.buildFilter(businessID, filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var suppliers []*domain.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Count returns total count matching filter
func (r *SupplierRepository) Count(ctx context.Context, businessID string, filter domain.SupplierFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(businessID, filter))
}

func (r *SupplierRepository) buildFilter(businessID string, filter domain.SupplierFilter) bson.M {
	mongoFilter := bson.M{"businessId": businessID}
	if filter.Search != nil && *filter.Search != "" {
		pattern := primitive.Regex{Pattern: *filter.Search, Options: "i"}
		mongoFilter["$or"] = []bson.M{
			{"name": pattern},
			{"contact": pattern},
		}
	}
	return mongoFilter
}

// PaymentRepository implements domain.PaymentRepository
type PaymentRepository struct {
	collection     *mongo.Collection
	businessHelper *business.RepositoryHelper
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	collection := db.Collection("supplier_payments")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "paymentId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			// One payment record per invoice per supplier; merges append
			// to the existing record instead of inserting a second one.
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "supplierId", Value: 1},
				{Key: "invoiceNo", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "supplierId", Value: 1},
				{Key: "paymentDate", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &PaymentRepository{
		collection:     collection,
		businessHelper: business.NewRepositoryHelper(false),
	}
}

// Save persists a payment record, version-checked on update. A duplicate
// key on insert means another posting created the invoice record first;
// it surfaces as a version conflict so the caller re-reads and merges.
func (r *PaymentRepository) Save(ctx context.Context, payment *domain.SupplierPayment) error {
	payment.UpdatedAt = time.Now().UTC()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
		_, err := r.collection.InsertOne(ctx, payment)
		if err != nil {
			payment.ID = primitive.NilObjectID
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrVersionConflict
			}
			return err
		}
		return nil
	}

	current := payment.Version
	payment.Version = current + 1

	result, err := r.collection.ReplaceOne(ctx, bson.M{
		"_id":     payment.ID,
		"version": current,
	}, payment)
	if err != nil {
		payment.Version = current
		return err
	}
	if result.MatchedCount == 0 {
		payment.Version = current
		return domain.ErrVersionConflict
	}
	return nil
}

// FindByID retrieves a payment by its id within a business
func (r *PaymentRepository) FindByID(ctx context.Context, businessID, paymentID string) (*domain.SupplierPayment, error) {
	var payment domain.SupplierPayment
	filter := bson.M{
		"businessId": businessID,
		"paymentId":  paymentID,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.businessHelper.ValidateOwnership(ctx, payment.BusinessID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByInvoiceNo retrieves the payment record for an invoice number, or
// nil when no record exists yet
func (r *PaymentRepository) FindByInvoiceNo(ctx context.Context, businessID, supplierID, invoiceNo string) (*domain.SupplierPayment, error) {
	var payment domain.SupplierPayment
	filter := bson.M{
		"businessId": businessID,
		"supplierId": supplierID,
		"invoiceNo":  invoiceNo,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindBySupplier retrieves all non-reversed payments for a supplier,
// newest first
func (r *PaymentRepository) FindBySupplier(ctx context.Context, businessID, supplierID string) ([]*domain.SupplierPayment, error) {
	filter := bson.M{
		"businessId": businessID,
		"supplierId": supplierID,
		"status":     bson.M{"$ne": domain.PaymentStatusReversed},
	}

	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

// Find retrieves payments matching the filter
func (r *PaymentRepository) Find(ctx context.Context, businessID string, filter domain.PaymentFilter, pagination domain.Pagination, sort domain.Sort) ([]*domain.SupplierPayment, error) {
	direction := -1
	if sort.Ascending {
		direction = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sort.Field, Value: direction}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	return r.findMany(ctx, r.buildFilter(businessID, filter), opts)
}

// Count returns total count matching filter
func (r *PaymentRepository) Count(ctx context.Context, businessID string, filter domain.PaymentFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(businessID, filter))
}

// SumOutstandingBySupplier totals remainingBalance across the supplier's
// non-reversed payments. Used by the balance audit to cross-check the
// denormalized supplier balance against the ledger.
func (r *PaymentRepository) SumOutstandingBySupplier(ctx context.Context, businessID, supplierID string) (domain.Money, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"businessId": businessID,
			"supplierId": supplierID,
			"status":     bson.M{"$ne": domain.PaymentStatusReversed},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$remainingBalance"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total domain.Money `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (r *PaymentRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.SupplierPayment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*domain.SupplierPayment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) buildFilter(businessID string, filter domain.PaymentFilter) bson.M {
	mongoFilter := bson.M{"businessId": businessID}

	if filter.SupplierID != nil {
		mongoFilter["supplierId"] = *filter.SupplierID
	} else if len(filter.SupplierIDs) > 0 {
		mongoFilter["supplierId"] = bson.M{"$in": filter.SupplierIDs}
	}
	if filter.InvoiceNo != nil {
		mongoFilter["invoiceNo"] = *filter.InvoiceNo
	}
	if filter.PaymentMode != nil {
		mongoFilter["paymentMode"] = *filter.PaymentMode
	}
	if filter.Status != nil {
		mongoFilter["status"] = *filter.Status
	}
	if filter.ProductName != nil {
		mongoFilter["lineItems.productName"] = primitive.Regex{Pattern: *filter.ProductName, Options: "i"}
	}

	amount := bson.M{}
	if filter.MinAmount != nil {
		amount["$gte"] = *filter.MinAmount
	}
	if filter.MaxAmount != nil {
		amount["$lte"] = *filter.MaxAmount
	}
	if len(amount) > 0 {
		mongoFilter["amountPaid"] = amount
	}

	date := bson.M{}
	if filter.FromDate != nil {
		date["$gte"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		date["$lte"] = *filter.ToDate
	}
	if len(date) > 0 {
		mongoFilter["paymentDate"] = date
	}

	return mongoFilter
}

// ReceiptRepository implements domain.ReceiptRepository
type ReceiptRepository struct {
	collection *mongo.Collection
}

// NewReceiptRepository creates a new ReceiptRepository
func NewReceiptRepository(db *mongo.Database) *ReceiptRepository {
	collection := db.Collection("inventory_receipts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "lineItemId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "supplierId", Value: 1},
				{Key: "receivedAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "paymentId", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ReceiptRepository{collection: collection}
}

// Save persists a receipt
func (r *ReceiptRepository) Save(ctx context.Context, receipt *domain.InventoryReceipt) error {
	receipt.UpdatedAt = time.Now().UTC()

	if receipt.ID.IsZero() {
		receipt.ID = primitive.NewObjectID()
		_, err := r.collection.InsertOne(ctx, receipt)
		return err
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": receipt.ID}, receipt)
	return err
}

// SaveAll persists multiple receipts
func (r *ReceiptRepository) SaveAll(ctx context.Context, receipts []*domain.InventoryReceipt) error {
	if len(receipts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(receipts))
	for i, receipt := range receipts {
		receipt.UpdatedAt = now
		if receipt.ID.IsZero() {
			receipt.ID = primitive.NewObjectID()
		}
		docs[i] = receipt
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByLineItemID retrieves the receipt snapshotting a line item
func (r *ReceiptRepository) FindByLineItemID(ctx context.Context, businessID, lineItemID string) (*domain.InventoryReceipt, error) {
	var receipt domain.InventoryReceipt
	filter := bson.M{
		"businessId": businessID,
		"lineItemId": lineItemID,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&receipt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// Find retrieves receipts matching the filter, newest first
func (r *ReceiptRepository) Find(ctx context.Context, businessID string, filter domain.ReceiptFilter, pagination domain.Pagination) ([]*domain.InventoryReceipt, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "receivedAt", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(businessID, filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var receipts []*domain.InventoryReceipt
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// Count returns total count matching filter
func (r *ReceiptRepository) Count(ctx context.Context, businessID string, filter domain.ReceiptFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(businessID, filter))
}

func (r *ReceiptRepository) buildFilter(businessID string, filter domain.ReceiptFilter) bson.M {
	mongoFilter := bson.M{"businessId": businessID}

	if filter.SupplierID != nil {
		mongoFilter["supplierId"] = *filter.SupplierID
	}
	if filter.PaymentID != nil {
		mongoFilter["paymentId"] = *filter.PaymentID
	}
	if filter.ProductName != nil {
		mongoFilter["productName"] = primitive.Regex{Pattern: *filter.ProductName, Options: "i"}
	}

	date := bson.M{}
	if filter.FromDate != nil {
		date["$gte"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		date["$lte"] = *filter.ToDate
	}
	if len(date) > 0 {
		mongoFilter["receivedAt"] = date
	}

	return mongoFilter
}
