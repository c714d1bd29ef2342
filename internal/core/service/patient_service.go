package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

type PatientService struct {
	tx         ports.Transactor
	patients   ports.PatientRepository
	categories ports.CategoryRepository
	now        func() time.Time
	log        zerolog.Logger
}

func NewPatientService(tx ports.Transactor, patients ports.PatientRepository, categories ports.CategoryRepository, log zerolog.Logger) *PatientService {
	return &PatientService{
		tx:         tx,
		patients:   patients,
		categories: categories,
		now:        time.Now,
		log:        log,
	}
}

// RegisterPatient validates and stores a new patient. Unknown category ids
// are dropped.
func (s *PatientService) RegisterPatient(ctx context.Context, in ports.RegisterPatientInput) (*domain.Patient, error) {
	ve := domain.NewValidationError()
	number := parsePatientNumber(in.PatientNumber, ve)
	details := demographics{
		FirstName:   in.FirstName,
		MiddleName:  in.MiddleName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
		City:        in.City,
	}
	dob := details.validate(ve)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patient := &domain.Patient{PatientNumber: number, CreatedAt: now}
	details.apply(patient, dob, now)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ids, err := s.resolveCategories(ctx, in.CategoryIDs)
		if err != nil {
			return err
		}
		patient.CategoryIDs = ids
		return s.patients.Create(ctx, patient)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("patient_number", number).Msg("patient registered")
	return s.GetPatient(ctx, number)
}

func (s *PatientService) GetPatient(ctx context.Context, patientNumber int64) (*domain.Patient, error) {
	return s.patients.FindByNumber(ctx, patientNumber)
}

func (s *PatientService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// UpdatePatient applies either a full demographic update or a categories-only
// update. Category sets are always replaced, never merged.
func (s *PatientService) UpdatePatient(ctx context.Context, patientNumber int64, update ports.PatientUpdate) (*domain.Patient, error) {
	var err error
	switch u := update.(type) {
	case ports.CategoriesOnlyUpdate:
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.patients.FindByNumber(ctx, patientNumber); err != nil {
				return err
			}
			return s.replaceCategories(ctx, patientNumber, u.CategoryIDs)
		})
	case ports.FullPatientUpdate:
		err = s.fullUpdate(ctx, patientNumber, u)
	default:
		ve := domain.NewValidationError()
		ve.Add("mode", domain.CodeInvalid)
		return nil, ve
	}
	if err != nil {
		return nil, err
	}

	return s.GetPatient(ctx, patientNumber)
}

func (s *PatientService) fullUpdate(ctx context.Context, patientNumber int64, u ports.FullPatientUpdate) error {
	ve := domain.NewValidationError()
	details := demographics{
		FirstName:   u.FirstName,
		MiddleName:  u.MiddleName,
		LastName:    u.LastName,
		DateOfBirth: u.DateOfBirth,
		City:        u.City,
	}
	dob := details.validate(ve)
	if err := ve.OrNil(); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		patient, err := s.patients.FindByNumber(ctx, patientNumber)
		if err != nil {
			return err
		}

		details.apply(patient, dob, s.now().UTC())
		if err := s.patients.UpdateDetails(ctx, patient); err != nil {
			return err
		}

		if u.CategoryIDs == nil {
			return nil
		}
		return s.replaceCategories(ctx, patientNumber, u.CategoryIDs)
	})
}

func (s *PatientService) replaceCategories(ctx context.Context, patientNumber int64, requested []int64) error {
	ids, err := s.resolveCategories(ctx, requested)
	if err != nil {
		return err
	}
	return s.patients.SetCategories(ctx, patientNumber, ids)
}

// resolveCategories returns the sorted, de-duplicated subset of requested ids
// that refer to existing categories.
func (s *PatientService) resolveCategories(ctx context.Context, requested []int64) ([]int64, error) {
	if len(requested) == 0 {
		return []int64{}, nil
	}

	seen := make(map[int64]struct{}, len(requested))
	unique := make([]int64, 0, len(requested))
	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	existing, err := s.categories.ExistingIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i] < existing[j] })
	return existing, nil
}

type demographics struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	City        string
}

// validate records missing or malformed fields in ve and returns the parsed
// date of birth.
func (d *demographics) validate(ve *domain.ValidationError) time.Time {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.MiddleName = strings.TrimSpace(d.MiddleName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.DateOfBirth = strings.TrimSpace(d.DateOfBirth)
	d.City = strings.TrimSpace(d.City)

	for field, value := range map[string]string{
		"first_name":  d.FirstName,
		"middle_name": d.MiddleName,
		"last_name":   d.LastName,
		"city":        d.City,
	} {
		if value == "" {
			ve.Add(field, domain.CodeRequired)
		}
	}

	if d.DateOfBirth == "" {
		ve.Add("date_of_birth", domain.CodeRequired)
		return time.Time{}
	}
	dob, err := domain.ParseDate(d.DateOfBirth)
	if err != nil {
		ve.Add("date_of_birth", domain.CodeInvalidDate)
		return time.Time{}
	}
	return dob
}

func (d demographics) apply(p *domain.Patient, dob, now time.Time) {
	p.FirstName = d.FirstName
	p.MiddleName = d.MiddleName
	p.LastName = d.LastName
	p.City = d.City
	p.DateOfBirth = dob
	p.Age = domain.AgeAt(dob, now)
}

func parsePatientNumber(raw string, ve *domain.ValidationError) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.Add("patient_number", domain.CodeRequired)
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ve.Add("patient_number", domain.CodeInvalidID)
		return 0
	}
	return n
}
