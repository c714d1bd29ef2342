package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// PatientRepository implements ports.PatientRepository using MongoDB.
// Enrollments are stored as category ids on the patient document.
type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

type patientDoc struct {
	PatientNumber int64     `bson:"patient_number"`
	FirstName     string    `bson:"first_name"`
	MiddleName    string    `bson:"middle_name"`
	LastName      string    `bson:"last_name"`
	Age           int       `bson:"age"`
	DateOfBirth   time.Time `bson:"date_of_birth"`
	City          string    `bson:"city"`
	CategoryIDs   []int64   `bson:"category_ids"`
	CreatedAt     time.Time `bson:"created_at"`
}

// patientView is a patient joined with its categories by $lookup.
type patientView struct {
	Patient    patientDoc    `bson:",inline"`
	Categories []categoryDoc `bson:"categories"`
}

func (v patientView) toDomain() domain.Patient {
	d := v.Patient
	categories := categoriesFromDocs(v.Categories)

	// Ids whose category was deleted outside a detach are dropped on read.
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	return domain.Patient{
		PatientNumber: d.PatientNumber,
		FirstName:     d.FirstName,
		MiddleName:    d.MiddleName,
		LastName:      d.LastName,
		Age:           d.Age,
		DateOfBirth:   d.DateOfBirth.UTC(),
		City:          d.City,
		CategoryIDs:   ids,
		Categories:    categories,
		CreatedAt:     d.CreatedAt,
	}
}

// Create inserts atomically; the unique patient_number index turns a
// concurrent duplicate into domain.ErrConflict.
func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := patient.CategoryIDs
	if ids == nil {
		ids = []int64{}
	}
	_, err := r.col.InsertOne(ctx, patientDoc{
		PatientNumber: patient.PatientNumber,
		FirstName:     patient.FirstName,
		MiddleName:    patient.MiddleName,
		LastName:      patient.LastName,
		Age:           patient.Age,
		DateOfBirth:   patient.DateOfBirth.UTC(),
		City:          patient.City,
		CategoryIDs:   ids,
		CreatedAt:     patient.CreatedAt.UTC(),
	})
	return translate(err, "insert patient")
}

func (r *PatientRepository) FindByNumber(ctx context.Context, patientNumber int64) (*domain.Patient, error) {
	patients, err := r.query(ctx, bson.M{"patient_number": patientNumber})
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, domain.ErrNotFound
	}
	return &patients[0], nil
}

// List returns every patient ordered by patient number.
func (r *PatientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	return r.query(ctx, bson.M{})
}

func (r *PatientRepository) query(ctx context.Context, match bson.M) ([]domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "patient_number", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionCategories},
			{Key: "localField", Value: "category_ids"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "categories"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "query patients")
	}
	var views []patientView
	if err := cur.All(ctx, &views); err != nil {
		return nil, translate(err, "decode patients")
	}

	patients := make([]domain.Patient, 0, len(views))
	for _, v := range views {
		patients = append(patients, v.toDomain())
	}
	return patients, nil
}

// UpdateDetails overwrites the demographic fields and age snapshot.
func (r *PatientRepository) UpdateDetails(ctx context.Context, patient *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"patient_number": patient.PatientNumber}, bson.M{"$set": bson.M{
		"first_name":    patient.FirstName,
		"middle_name":   patient.MiddleName,
		"last_name":     patient.LastName,
		"age":           patient.Age,
		"date_of_birth": patient.DateOfBirth.UTC(),
		"city":          patient.City,
	}})
	return matched(res, err, "update patient")
}

// SetCategories replaces the full category set of one patient.
func (r *PatientRepository) SetCategories(ctx context.Context, patientNumber int64, categoryIDs []int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"patient_number": patientNumber},
		bson.M{"$set": bson.M{"category_ids": categoryIDs}},
	)
	return matched(res, err, "set patient categories")
}

// DetachCategory removes categoryID from every patient's category set.
func (r *PatientRepository) DetachCategory(ctx context.Context, categoryID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"category_ids": categoryID},
		bson.M{"$pull": bson.M{"category_ids": categoryID}},
	)
	return translate(err, "detach category")
}
