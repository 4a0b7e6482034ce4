package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/cache"
	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// Verification flow errors.
var (
	ErrCodeInvalid     = errors.New("verification code is invalid")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrIssueThrottled  = errors.New("a code was sent recently, try again later")
	ErrAlreadyVerified = errors.New("account is already verified")
)

// resendWindow is the minimum gap between two codes of the same type for
// the same user, enforced through the cache when redis is configured.
const resendWindow = 2 * time.Minute

// VerificationService issues and consumes one-time codes for email
// confirmation and password resets.
type VerificationService struct {
	db       *gorm.DB
	codes    *store.Store[models.VerificationCode]
	users    *store.Store[models.User]
	recorder *audit.Recorder
	cache    *cache.Cache
	mail     *MailService
}

// NewVerificationService creates a new verification service instance.
func NewVerificationService(db *gorm.DB, recorder *audit.Recorder, c *cache.Cache, mail *MailService) *VerificationService {
	return &VerificationService{
		db:       db,
		codes:    store.New[models.VerificationCode](db),
		users:    store.New[models.User](db),
		recorder: recorder,
		cache:    c,
		mail:     mail,
	}
}

// Issue creates a fresh code of the given type for the user, invalidating
// any earlier codes of the same type, and mails it when mail is
// configured. Issuing is throttled per user and type.
func (s *VerificationService) Issue(ctx context.Context, userUUID, codeType string) (*models.VerificationCode, error) {
	user, err := s.users.Get(userUUID, false)
	if err != nil {
		return nil, err
	}
	if codeType == models.CodeTypeConfirmEmail && user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	throttled, err := s.cache.Throttle(ctx, fmt.Sprintf("verify:%s:%s", userUUID, codeType), resendWindow)
	if err != nil {
		return nil, err
	}
	if throttled {
		return nil, ErrIssueThrottled
	}

	// Earlier codes of the same type are dead once a new one exists.
	if err := s.db.Where("user_uuid = ? AND type = ?", userUUID, codeType).
		Delete(&models.VerificationCode{}).Error; err != nil {
		return nil, fmt.Errorf("invalidate previous codes: %w", err)
	}

	code, err := s.codes.Create(&models.VerificationCode{
		Type:     codeType,
		UserUUID: userUUID,
	})
	if err != nil {
		return nil, err
	}

	if s.mail.IsConfigured() {
		if err := s.mail.SendVerificationCode(user.Email, code.Code); err != nil {
			logger.Log().WithError(err).WithField("user_uuid", userUUID).Warn("Failed to send verification code email")
		}
	}

	action := models.ActionConfirmEmail
	if codeType == models.CodeTypeResetPassword {
		action = models.ActionCreatePassword
	}
	if _, err := s.recorder.Record(audit.Entry{
		Entity:      "VerificationCode",
		Action:      action,
		UserUUID:    &userUUID,
		Description: fmt.Sprintf("Verification code issued (%s)", codeType),
	}); err != nil {
		return nil, err
	}

	return code, nil
}

// Verify consumes a code. On success the code row is deleted; for
// confirm_email codes the user is additionally marked verified.
func (s *VerificationService) Verify(userUUID, codeType, code string) error {
	var row models.VerificationCode
	err := s.db.Where("user_uuid = ? AND type = ? AND code = ?", userUUID, codeType, code).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeInvalid
	}
	if err != nil {
		return fmt.Errorf("lookup verification code: %w", err)
	}
	if row.IsExpired() {
		return ErrCodeExpired
	}

	if _, err := s.codes.Remove(&row); err != nil {
		return err
	}

	if codeType == models.CodeTypeConfirmEmail {
		user, err := s.users.Get(userUUID, false)
		if err != nil {
			return err
		}
		now := time.Now()
		if _, err := s.users.Update(user, map[string]any{
			"is_verified": true,
			"verified_at": now,
		}); err != nil {
			return err
		}
	}

	_, err = s.recorder.Record(audit.Entry{
		Entity:      "VerificationCode",
		Action:      models.ActionVerifyEmail,
		UserUUID:    &userUUID,
		Description: fmt.Sprintf("Verification code consumed (%s)", codeType),
	})
	return err
}

// PurgeExpired deletes codes past their deadline and returns the count.
func (s *VerificationService) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at <= ?", time.Now()).Delete(&models.VerificationCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge expired codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
