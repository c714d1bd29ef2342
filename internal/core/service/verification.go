package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

const (
	credentialSubject  = "Your clinic account is active"
	resetNoticeSubject = "Password Reset"
)

// VerifyDoctor activates both the identity and the doctor profile and stores a
// fresh credential in one transaction. The credential is mailed after commit;
// a failed delivery is logged and does not undo the activation. Verifying an
// already active doctor rotates the credential.
func (s *DoctorService) VerifyDoctor(ctx context.Context, employeeID, requester string) (*domain.Doctor, error) {
	if !s.admin.Is(requester) {
		return nil, domain.ErrForbidden
	}

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		ve := domain.NewValidationError()
		ve.Add("employee_id", domain.CodeRequired)
		return nil, ve
	}

	credential, hash, err := s.issueCredential()
	if err != nil {
		return nil, err
	}

	var doctor domain.Doctor
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		identity, err := s.identities.FindByLoginID(ctx, employeeID)
		if err != nil {
			return err
		}
		profile, err := s.doctors.FindByEmployeeID(ctx, employeeID)
		if err != nil {
			return err
		}

		if err := s.identities.SetPassword(ctx, employeeID, hash); err != nil {
			return err
		}
		if err := s.identities.SetActive(ctx, employeeID, true); err != nil {
			return err
		}
		if err := s.doctors.SetActive(ctx, employeeID, true); err != nil {
			return err
		}

		identity.PasswordHash = hash
		identity.IsActive = true
		profile.IsActive = true
		doctor = domain.Doctor{Profile: *profile, Identity: *identity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("employee_id", employeeID).Str("verified_by", requester).Msg("doctor verified")
	s.deliverCredential(ctx, &doctor.Identity, credential)
	return &doctor, nil
}

// SendResetNotice mails a reset notice to an existing identity whose email
// matches. The stored password is not changed.
func (s *DoctorService) SendResetNotice(ctx context.Context, employeeID, email string) error {
	employeeID = strings.TrimSpace(employeeID)
	email = strings.TrimSpace(email)

	ve := domain.NewValidationError()
	if employeeID == "" {
		ve.Add("employee_id", domain.CodeRequired)
	}
	if email == "" {
		ve.Add("email", domain.CodeRequired)
	}
	if err := ve.OrNil(); err != nil {
		return err
	}

	identity, err := s.identities.FindByLoginID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(identity.Email, email) {
		return domain.ErrNotFound
	}

	if err := s.notifier.Send(ctx, identity.Email, resetNoticeSubject, resetNoticeBody(identity)); err != nil {
		return fmt.Errorf("send reset notice: %w", err)
	}

	s.log.Info().Str("employee_id", employeeID).Msg("reset notice sent")
	return nil
}

func (s *DoctorService) issueCredential() (plain, hash string, err error) {
	plain, err = s.generate()
	if err != nil {
		return "", "", err
	}
	hash, err = s.hasher.Hash(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hash, nil
}

func (s *DoctorService) deliverCredential(ctx context.Context, identity *domain.Identity, credential string) {
	if err := s.notifier.Send(ctx, identity.Email, credentialSubject, credentialBody(identity, credential)); err != nil {
		s.log.Error().Err(err).Str("employee_id", identity.LoginID).Msg("credential delivery failed, activation kept")
	}
}

func credentialBody(identity *domain.Identity, credential string) string {
	return fmt.Sprintf(
		"Hello Dr. %s,\n\nYour clinic account has been verified.\n\nEmployee ID: %s\nPassword: %s\n\nPlease keep this password private.\n",
		identity.LastName, identity.LoginID, credential,
	)
}

func resetNoticeBody(identity *domain.Identity) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour password has been reset. Sign in with employee ID %s.\n",
		identity.FirstName, identity.LoginID,
	)
}
