package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"
	"time"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
	"shopauth/internal/utils"
)

const (
	defaultCodeTTL    = 2 * time.Minute
	defaultPurgeAfter = 24 * time.Hour
)

// VerificationService выдаёт и гасит одноразовые коды сброса пароля.
//
// Код живёт CodeTTL после выдачи. Текущим считается самый свежий код пользователя.
type VerificationService interface {
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	Issue(ctx context.Context, user *models.User) (string, error)
	Consume(ctx context.Context, user *models.User, code string) error
}

type verificationService struct {
	repo       repositories.VerificationCodeRepository
	codeTTL    time.Duration
	purgeAfter time.Duration
	now        func() time.Time
	newCode    func() (string, error)
}

func NewVerificationService(repo repositories.VerificationCodeRepository, codeTTL, purgeAfter time.Duration, now func() time.Time) VerificationService {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	if purgeAfter <= 0 {
		purgeAfter = defaultPurgeAfter
	}
	if now == nil {
		now = time.Now
	}
	return &verificationService{
		repo:       repo,
		codeTTL:    codeTTL,
		purgeAfter: purgeAfter,
		now:        now,
		newCode:    utils.NewNumericCode,
	}
}

func (s *verificationService) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = s.purgeAfter
	}
	return s.repo.DeleteExpiredBefore(ctx, s.now().Add(-olderThan))
}

func (s *verificationService) Issue(ctx context.Context, user *models.User) (string, error) {
	// ленивая очистка вместо фонового sweep; ошибка не мешает выдаче
	if n, err := s.PurgeExpired(ctx, s.purgeAfter); err != nil {
		log.Printf("[codes][purge] failed: err=%v", err)
	} else if n > 0 {
		log.Printf("[codes][purge] removed=%d", n)
	}

	code, err := s.newCode()
	if err != nil {
		return "", err
	}
	now := s.now()
	rec := &models.VerificationCode{
		UserID:         user.ID,
		Code:           code,
		Validation:     true,
		ExpirationTime: now.Add(s.codeTTL),
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", err
	}
	log.Printf("[codes][issue] user_id=%d code_id=%d", user.ID, rec.ID)
	return code, nil
}

func (s *verificationService) Consume(ctx context.Context, user *models.User, code string) error {
	v, err := s.repo.LatestByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if v.UserID != user.ID {
		return ErrCodeOwnerMismatch
	}
	if !v.Validation || !s.now().Before(v.ExpirationTime) {
		return ErrCodeExpired
	}
	code = strings.TrimSpace(code)
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		return ErrCodeIncorrect
	}
	// MarkUsed атомарен: при гонке двух запросов пройдёт только один
	if err := s.repo.MarkUsed(ctx, v.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCodeExpired
		}
		return err
	}
	return nil
}
