package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// DoctorRepository implements ports.DoctorRepository using MongoDB.
type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

type doctorDoc struct {
	EmployeeID     string    `bson:"employee_id"`
	Specialization string    `bson:"specialization"`
	IsActive       bool      `bson:"is_active"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

// doctorView is a doctor profile joined with its identity by $lookup.
type doctorView struct {
	Profile  doctorDoc   `bson:",inline"`
	Identity identityDoc `bson:"identity"`
}

// statsSummary is the output of the $group stage in Stats.
type statsSummary struct {
	Total           int64    `bson:"total"`
	Active          int64    `bson:"active"`
	Specializations []string `bson:"specializations"`
}

func (d doctorDoc) toDomain() domain.DoctorProfile {
	return domain.DoctorProfile{
		EmployeeID:     d.EmployeeID,
		Specialization: d.Specialization,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (s statsSummary) toDomain() domain.DoctorStats {
	var distinct int64
	for _, spec := range s.Specializations {
		if spec != "" {
			distinct++
		}
	}
	return domain.DoctorStats{
		Total:           s.Total,
		Active:          s.Active,
		Pending:         s.Total - s.Active,
		Specializations: distinct,
	}
}

// Create fails with domain.ErrConflict when the employee id already has a profile.
func (r *DoctorRepository) Create(ctx context.Context, profile *domain.DoctorProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, doctorDoc{
		EmployeeID:     profile.EmployeeID,
		Specialization: profile.Specialization,
		IsActive:       profile.IsActive,
		CreatedAt:      profile.CreatedAt.UTC(),
		UpdatedAt:      profile.UpdatedAt.UTC(),
	})
	return translate(err, "insert doctor")
}

func (r *DoctorRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*domain.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc doctorDoc
	if err := r.col.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&doc); err != nil {
		return nil, translate(err, "find doctor")
	}
	profile := doc.toDomain()
	return &profile, nil
}

func (r *DoctorRepository) SetActive(ctx context.Context, employeeID string, active bool) error {
	return r.set(ctx, employeeID, bson.M{"is_active": active})
}

func (r *DoctorRepository) UpdateSpecialization(ctx context.Context, employeeID, specialization string) error {
	return r.set(ctx, employeeID, bson.M{"specialization": specialization})
}

func (r *DoctorRepository) set(ctx context.Context, employeeID string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = now()
	res, err := r.col.UpdateOne(ctx, bson.M{"employee_id": employeeID}, bson.M{"$set": fields})
	return matched(res, err, "update doctor")
}

// List returns every profile joined with its owning identity, ordered by employee id.
func (r *DoctorRepository) List(ctx context.Context) ([]domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "employee_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionIdentities},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "login_id"},
			{Key: "as", Value: "identity"},
		}}},
		{{Key: "$unwind", Value: "$identity"}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "list doctors")
	}
	var views []doctorView
	if err := cur.All(ctx, &views); err != nil {
		return nil, translate(err, "decode doctors")
	}

	doctors := make([]domain.Doctor, 0, len(views))
	for _, v := range views {
		doctors = append(doctors, domain.Doctor{
			Profile:  v.Profile.toDomain(),
			Identity: v.Identity.toDomain(),
		})
	}
	return doctors, nil
}

// Stats aggregates the registry counts in a single $group stage.
func (r *DoctorRepository) Stats(ctx context.Context) (domain.DoctorStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "active", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$is_active", 1, 0}},
			}}}},
			{Key: "specializations", Value: bson.D{{Key: "$addToSet", Value: "$specialization"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.DoctorStats{}, translate(err, "doctor stats")
	}
	var rows []statsSummary
	if err := cur.All(ctx, &rows); err != nil {
		return domain.DoctorStats{}, translate(err, "decode doctor stats")
	}
	if len(rows) == 0 {
		return domain.DoctorStats{}, nil
	}
	return rows[0].toDomain(), nil
}
