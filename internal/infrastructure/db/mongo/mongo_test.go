package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	boom := errors.New("boom")
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{"nil", nil, nil},
		{"no documents", mongo.ErrNoDocuments, domain.ErrNotFound},
		{"duplicate key", dup, domain.ErrConflict},
		{"other", boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, "op")
			if tt.wantIs == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.wantIs) {
				t.Errorf("expected %v, got %v", tt.wantIs, got)
			}
		})
	}
}

func TestMatched_NoDocumentIsNotFound(t *testing.T) {
	err := matched(&mongo.UpdateResult{MatchedCount: 0}, nil, "update")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := matched(&mongo.UpdateResult{MatchedCount: 1}, nil, "update"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStatsSummary_ToDomain(t *testing.T) {
	stats := statsSummary{
		Total:           5,
		Active:          2,
		Specializations: []string{"cardiology", "", "neurology"},
	}.toDomain()

	want := domain.DoctorStats{Total: 5, Active: 2, Pending: 3, Specializations: 2}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestDoctorView_DecodesInlineProfile(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"employee_id":    "DOC-1",
		"specialization": "cardiology",
		"is_active":      true,
		"identity": bson.M{
			"login_id":   "DOC-1",
			"first_name": "Ana",
			"email":      "ana@clinic.test",
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var v doctorView
	if err := bson.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Profile.EmployeeID != "DOC-1" || !v.Profile.IsActive {
		t.Errorf("unexpected profile: %+v", v.Profile)
	}
	if v.Identity.FirstName != "Ana" || v.Identity.Email != "ana@clinic.test" {
		t.Errorf("unexpected identity: %+v", v.Identity)
	}
}

func TestPatientView_ToDomain_OnlyExistingCategories(t *testing.T) {
	dob := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	v := patientView{
		Patient: patientDoc{
			PatientNumber: 42,
			FirstName:     "Luis",
			DateOfBirth:   dob,
			Age:           23,
			CategoryIDs:   []int64{3, 1, 9},
		},
		Categories: []categoryDoc{
			{ID: 3, Name: "diabetes"},
			{ID: 1, Name: "prenatal"},
		},
	}

	p := v.toDomain()
	if p.PatientNumber != 42 || p.Age != 23 || !p.DateOfBirth.Equal(dob) {
		t.Errorf("unexpected patient: %+v", p)
	}
	if len(p.Categories) != 2 || p.Categories[0].ID != 1 || p.Categories[1].ID != 3 {
		t.Errorf("expected categories [1 3], got %+v", p.Categories)
	}
	if len(p.CategoryIDs) != 2 || p.CategoryIDs[0] != 1 || p.CategoryIDs[1] != 3 {
		t.Errorf("expected category ids [1 3], got %v", p.CategoryIDs)
	}
}
