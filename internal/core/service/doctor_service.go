package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

// DoctorService owns the doctor registry and the verification workflow.
// Every write touching both an identity and a doctor profile runs inside a
// single transaction; notifications go out only after commit.
type DoctorService struct {
	tx         ports.Transactor
	identities ports.IdentityRepository
	doctors    ports.DoctorRepository
	stats      ports.DoctorStatsCache
	notifier   ports.Notifier
	admin      domain.AdminIdentity
	hasher     PasswordHasher
	generate   func() (string, error)
	now        func() time.Time
	log        zerolog.Logger
}

func NewDoctorService(
	tx ports.Transactor,
	identities ports.IdentityRepository,
	doctors ports.DoctorRepository,
	stats ports.DoctorStatsCache,
	notifier ports.Notifier,
	admin domain.AdminIdentity,
	hasher PasswordHasher,
	log zerolog.Logger,
) *DoctorService {
	if stats == nil {
		stats = noopStatsCache{}
	}
	return &DoctorService{
		tx:         tx,
		identities: identities,
		doctors:    doctors,
		stats:      stats,
		notifier:   notifier,
		admin:      admin,
		hasher:     hasher,
		generate:   GenerateCredential,
		now:        time.Now,
		log:        log,
	}
}

func (s *DoctorService) RegisterPendingDoctor(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
	in = normalizeDoctorInput(in)
	if err := s.validateDoctorInput(in); err != nil {
		return nil, err
	}

	placeholder, err := placeholderCredential()
	if err != nil {
		return nil, err
	}

	doctor := s.newDoctor(in, placeholder, false)
	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.createDoctor(ctx, doctor)
	}); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("employee_id", in.EmployeeID).Msg("doctor registered, pending verification")
	return doctor, nil
}

func (s *DoctorService) RegisterVerifiedDoctor(ctx context.Context, in ports.RegisterDoctorInput, requester string) (*domain.Doctor, error) {
	if !s.admin.Is(requester) {
		return nil, domain.ErrForbidden
	}

	in = normalizeDoctorInput(in)
	if err := s.validateDoctorInput(in); err != nil {
		return nil, err
	}

	credential, hash, err := s.issueCredential()
	if err != nil {
		return nil, err
	}

	doctor := s.newDoctor(in, hash, true)
	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.createDoctor(ctx, doctor)
	}); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("employee_id", in.EmployeeID).Msg("doctor registered as verified")
	s.deliverCredential(ctx, &doctor.Identity, credential)
	return doctor, nil
}

func (s *DoctorService) UpsertDoctor(ctx context.Context, in ports.UpsertDoctorInput, requester string) (*domain.Doctor, bool, error) {
	if !s.admin.Is(requester) {
		return nil, false, domain.ErrForbidden
	}

	reg := normalizeDoctorInput(ports.RegisterDoctorInput{
		EmployeeID:     in.EmployeeID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Specialization: in.Specialization,
	})
	if reg.EmployeeID == "" {
		ve := domain.NewValidationError()
		ve.Add("employee_id", domain.CodeRequired)
		return nil, false, ve
	}
	if s.admin.Is(reg.EmployeeID) {
		ve := domain.NewValidationError()
		ve.Add("employee_id", domain.CodeInvalid)
		return nil, false, ve
	}

	_, err := s.identities.FindByLoginID(ctx, reg.EmployeeID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		doctor, err := s.upsertCreate(ctx, reg, in.Active, requester)
		return doctor, err == nil, err
	case err != nil:
		return nil, false, fmt.Errorf("upsert doctor: %w", err)
	}

	var doctor *domain.Doctor
	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doctor, err = s.updateDoctor(ctx, reg)
		return err
	}); err != nil {
		return nil, false, err
	}

	s.invalidateStats(ctx)
	return doctor, false, nil
}

func (s *DoctorService) upsertCreate(ctx context.Context, in ports.RegisterDoctorInput, active bool, requester string) (*domain.Doctor, error) {
	if active {
		return s.RegisterVerifiedDoctor(ctx, in, requester)
	}
	return s.RegisterPendingDoctor(ctx, in)
}

// updateDoctor edits profile fields of an existing doctor. Empty fields keep
// their stored value. Password and active flags are left alone.
func (s *DoctorService) updateDoctor(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
	identity, err := s.identities.FindByLoginID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		FirstName: firstNonEmpty(in.FirstName, identity.FirstName),
		LastName:  firstNonEmpty(in.LastName, identity.LastName),
		Email:     identity.Email,
	}
	if err := s.identities.UpdateProfile(ctx, in.EmployeeID, profile); err != nil {
		return nil, err
	}
	if in.Email != "" && in.Email != identity.Email {
		if err := s.identities.UpdateEmail(ctx, in.EmployeeID, in.Email); err != nil {
			return nil, err
		}
		profile.Email = in.Email
	}

	doctorProfile, err := s.doctors.FindByEmployeeID(ctx, in.EmployeeID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Identity without a profile: attach one that mirrors its active flag.
		now := s.now().UTC()
		doctorProfile = &domain.DoctorProfile{
			EmployeeID:     in.EmployeeID,
			Specialization: in.Specialization,
			IsActive:       identity.IsActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.doctors.Create(ctx, doctorProfile); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case in.Specialization != "" && in.Specialization != doctorProfile.Specialization:
		if err := s.doctors.UpdateSpecialization(ctx, in.EmployeeID, in.Specialization); err != nil {
			return nil, err
		}
		doctorProfile.Specialization = in.Specialization
	}

	identity.FirstName = profile.FirstName
	identity.LastName = profile.LastName
	identity.Email = profile.Email
	return &domain.Doctor{Profile: *doctorProfile, Identity: *identity}, nil
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// DoctorStats serves from the cache when possible. Cache failures are logged
// and bypassed. A Set racing a concurrent write's Invalidate can store stale
// counts; they expire after the cache TTL.
func (s *DoctorService) DoctorStats(ctx context.Context) (*domain.DoctorStats, error) {
	cached, ok, err := s.stats.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("doctor stats cache read failed")
	} else if ok {
		return &cached, nil
	}

	stats, err := s.doctors.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("doctor stats: %w", err)
	}

	if err := s.stats.Set(ctx, stats); err != nil {
		s.log.Warn().Err(err).Msg("doctor stats cache write failed")
	}
	return &stats, nil
}

func (s *DoctorService) newDoctor(in ports.RegisterDoctorInput, passwordHash string, active bool) *domain.Doctor {
	now := s.now().UTC()
	return &domain.Doctor{
		Identity: domain.Identity{
			LoginID:      in.EmployeeID,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: passwordHash,
			IsActive:     active,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Profile: domain.DoctorProfile{
			EmployeeID:     in.EmployeeID,
			Specialization: in.Specialization,
			IsActive:       active,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

func (s *DoctorService) createDoctor(ctx context.Context, doctor *domain.Doctor) error {
	if err := s.identities.Create(ctx, &doctor.Identity); err != nil {
		return err
	}
	return s.doctors.Create(ctx, &doctor.Profile)
}

func (s *DoctorService) invalidateStats(ctx context.Context) {
	if err := s.stats.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("doctor stats cache invalidation failed")
	}
}

func normalizeDoctorInput(in ports.RegisterDoctorInput) ports.RegisterDoctorInput {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Specialization = strings.TrimSpace(in.Specialization)
	return in
}

// validateDoctorInput also rejects the admin login id, which is reserved for
// the admin bootstrap and must never become a doctor.
func (s *DoctorService) validateDoctorInput(in ports.RegisterDoctorInput) error {
	ve := domain.NewValidationError()
	switch {
	case in.EmployeeID == "":
		ve.Add("employee_id", domain.CodeRequired)
	case s.admin.Is(in.EmployeeID):
		ve.Add("employee_id", domain.CodeInvalid)
	}
	if in.FirstName == "" {
		ve.Add("first_name", domain.CodeRequired)
	}
	if in.LastName == "" {
		ve.Add("last_name", domain.CodeRequired)
	}
	if in.Email == "" {
		ve.Add("email", domain.CodeRequired)
	}
	return ve.OrNil()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context) (domain.DoctorStats, bool, error) {
	return domain.DoctorStats{}, false, nil
}
func (noopStatsCache) Set(context.Context, domain.DoctorStats) error { return nil }
func (noopStatsCache) Invalidate(context.Context) error              { return nil }
