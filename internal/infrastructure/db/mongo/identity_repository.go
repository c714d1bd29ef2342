package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// IdentityRepository implements ports.IdentityRepository using MongoDB.
type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

type identityDoc struct {
	LoginID      string    `bson:"login_id"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newIdentityDoc(i *domain.Identity) identityDoc {
	return identityDoc{
		LoginID:      i.LoginID,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		IsActive:     i.IsActive,
		CreatedAt:    i.CreatedAt.UTC(),
		UpdatedAt:    i.UpdatedAt.UTC(),
	}
}

func (d identityDoc) toDomain() domain.Identity {
	return domain.Identity{
		LoginID:      d.LoginID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Create inserts a new identity. The unique login_id index turns a concurrent
// duplicate into domain.ErrConflict.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, newIdentityDoc(identity))
	return translate(err, "insert identity")
}

func (r *IdentityRepository) FindByLoginID(ctx context.Context, loginID string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, bson.M{"login_id": loginID}).Decode(&doc); err != nil {
		return nil, translate(err, "find identity")
	}
	identity := doc.toDomain()
	return &identity, nil
}

func (r *IdentityRepository) SetPassword(ctx context.Context, loginID, passwordHash string) error {
	return r.set(ctx, loginID, bson.M{"password_hash": passwordHash})
}

func (r *IdentityRepository) SetActive(ctx context.Context, loginID string, active bool) error {
	return r.set(ctx, loginID, bson.M{"is_active": active})
}

func (r *IdentityRepository) UpdateEmail(ctx context.Context, loginID, email string) error {
	return r.set(ctx, loginID, bson.M{"email": email})
}

func (r *IdentityRepository) UpdateProfile(ctx context.Context, loginID string, profile domain.Profile) error {
	return r.set(ctx, loginID, bson.M{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"email":      profile.Email,
	})
}

func (r *IdentityRepository) set(ctx context.Context, loginID string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = now()
	res, err := r.col.UpdateOne(ctx, bson.M{"login_id": loginID}, bson.M{"$set": fields})
	return matched(res, err, "update identity")
}
