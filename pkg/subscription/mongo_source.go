package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DefaultCollection is the collection the billing collaborator writes
// subscription projections into.
const DefaultCollection = "subscriptions"

// subscriptionDoc is the wire shape of a subscription in MongoDB. User IDs
// are stored as their canonical string form to keep the documents readable
// in the billing team's tooling.
type subscriptionDoc struct {
	UserID             string     `bson:"_id"`
	Plan               string     `bson:"plan"`
	Status             string     `bson:"status"`
	TrialEndsAt        *time.Time `bson:"trial_ends_at,omitempty"`
	BillingCustomerRef string     `bson:"billing_customer_ref,omitempty"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

// MongoSource reads subscription projections from the billing collaborator's
// MongoDB collection. Read-only: this engine never writes billing state.
type MongoSource struct {
	coll *mongo.Collection
}

// NewMongoSource creates a Source over the given database using
// DefaultCollection. Panics on nil database to fail fast during
// initialization.
func NewMongoSource(db *mongo.Database) *MongoSource {
	if db == nil {
		panic("subscription: mongo database is required")
	}
	return &MongoSource{coll: db.Collection(DefaultCollection)}
}

func (s *MongoSource) Get(ctx context.Context, userID uuid.UUID) (Subscription, error) {
	var doc subscriptionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, errors.Join(ErrSourceUnavailable, err)
	}

	return Subscription{
		UserID:             userID,
		Plan:               Plan(doc.Plan),
		Status:             Status(doc.Status),
		TrialEndsAt:        doc.TrialEndsAt,
		BillingCustomerRef: doc.BillingCustomerRef,
		UpdatedAt:          doc.UpdatedAt,
	}, nil
}
