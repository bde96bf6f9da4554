package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"shopauth/internal/metrics"
	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

type SessionConfig struct {
	// StoreTimeout ограничивает все обращения к хранилищам в рамках одной операции.
	StoreTimeout        time.Duration
	DenylistEnabled     bool
	DenylistTokenChecks []string
}

func (c SessionConfig) checksDenylist(tokenType string) bool {
	if !c.DenylistEnabled {
		return false
	}
	for _, t := range c.DenylistTokenChecks {
		if t == tokenType {
			return true
		}
	}
	return false
}

type ResetInput struct {
	Username     string
	Code         string
	NewPassword  string
	NewPassword2 string
}

// SessionService связывает токены, denylist и коды подтверждения:
// login, refresh, revoke и сброс пароля.
type SessionService struct {
	cfg      SessionConfig
	users    repositories.UserRepository
	auth     AuthService
	tokens   TokenService
	codes    VerificationService
	delivery CodeDelivery
	metrics  *metrics.Metrics
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewSessionService(
	cfg SessionConfig,
	users repositories.UserRepository,
	auth AuthService,
	tokens TokenService,
	codes VerificationService,
	delivery CodeDelivery,
	m *metrics.Metrics,
) *SessionService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &SessionService{
		cfg:      cfg,
		users:    users,
		auth:     auth,
		tokens:   tokens,
		codes:    codes,
		delivery: delivery,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock подменяет часы (для тестов).
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *SessionService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// writeCtx не наследует отмену клиента: запись либо завершится, либо упадёт по таймауту.
func (s *SessionService) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return s.storeCtx(context.WithoutCancel(ctx))
}

// для неизвестного пользователя тоже гоняем bcrypt, чтобы не светить его отсутствие по времени ответа
func (s *SessionService) fakeCheck(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.auth.HashPassword("shopauth-dummy-password")
		if err != nil {
			log.Printf("[auth][login] dummy hash failed: err=%v", err)
			return
		}
		s.dummyHash = h
	})
	_ = s.auth.CheckPassword(s.dummyHash, password)
}

func (s *SessionService) Login(ctx context.Context, username, password string) (pair *models.TokenPair, err error) {
	defer func() { s.metrics.Logins.WithLabelValues(metrics.Result(err)).Inc() }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.users.GetByUsername(sctx, username)
	if errors.Is(err, ErrNotFound) {
		s.fakeCheck(password)
		log.Printf("[auth][login] unknown username=%q", username)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.auth.CheckPassword(user.PasswordHash, password) {
		log.Printf("[auth][login] password mismatch user_id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Printf("[auth][login] inactive user_id=%d", user.ID)
		return nil, ErrForbidden
	}

	claims := user.Claims()
	access, err := s.tokens.IssueAccess(user.Username, claims)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.Username, claims)
	if err != nil {
		return nil, err
	}
	log.Printf("[auth][login] success user_id=%d staff=%v", user.ID, user.IsStaff)
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh выпускает новый access. Флаги берём из хранилища, а не из старых claims,
// поэтому деактивированный пользователь больше не обновится.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (access string, err error) {
	defer func() { s.metrics.Refreshes.WithLabelValues(metrics.Result(err)).Inc() }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	vt, err := s.verify(sctx, refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByUsername(sctx, vt.Subject)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", ErrForbidden
	}
	return s.tokens.IssueAccess(user.Username, user.Claims())
}

// Authenticate проверяет access-токен вместе с denylist.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*models.VerifiedToken, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.verify(sctx, accessToken, models.TokenTypeAccess)
}

func (s *SessionService) verify(ctx context.Context, token, tokenType string) (*models.VerifiedToken, error) {
	vt, err := s.tokens.Verify(token, tokenType)
	if err != nil {
		return nil, err
	}
	if s.cfg.checksDenylist(tokenType) {
		revoked, err := s.tokens.IsRevoked(ctx, vt.JTI)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return vt, nil
}

func (s *SessionService) RevokeAccess(ctx context.Context, accessToken string) error {
	return s.revoke(ctx, accessToken, models.TokenTypeAccess)
}

func (s *SessionService) RevokeRefresh(ctx context.Context, refreshToken string) error {
	return s.revoke(ctx, refreshToken, models.TokenTypeRefresh)
}

// revoke не смотрит в denylist, поэтому повторный отзыв того же токена проходит.
// TTL записи = оставшаяся жизнь токена + секунда запаса.
func (s *SessionService) revoke(ctx context.Context, token, tokenType string) error {
	vt, err := s.tokens.Verify(token, tokenType)
	if err != nil {
		return err
	}
	ttl := vt.ExpiresAt.Sub(s.now()) + time.Second
	if ttl <= 0 {
		return ErrInvalidToken
	}

	wctx, cancel := s.writeCtx(ctx)
	defer cancel()
	if err := s.tokens.Revoke(wctx, vt.JTI, ttl); err != nil {
		return err
	}
	s.metrics.Revocations.WithLabelValues(tokenType).Inc()
	log.Printf("[auth][revoke] %s token revoked subject=%q ttl=%s", tokenType, vt.Subject, ttl.Truncate(time.Second))
	return nil
}

// activeUser: нет пользователя -> ErrNotFound, неактивен -> ErrForbidden.
func (s *SessionService) activeUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("username is required")
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequestResetCode выдаёт код и отправляет его по выбранному каналу.
// Ошибка доставки только логируется: код уже сохранён, запрос можно повторить.
func (s *SessionService) RequestResetCode(ctx context.Context, username, plan string) error {
	plan = strings.ToLower(strings.TrimSpace(plan))
	if plan == "" {
		plan = PlanEmail
	}
	if plan != PlanEmail && plan != PlanMobile {
		return validationError("query params not valid: plan must be %q or %q", PlanEmail, PlanMobile)
	}

	wctx, cancel := s.writeCtx(ctx)
	defer cancel()

	user, err := s.activeUser(wctx, username)
	if err != nil {
		return err
	}
	if plan == PlanMobile && user.Phone == nil {
		return validationError("user has no phone number")
	}

	code, err := s.codes.Issue(wctx, user)
	if err != nil {
		return err
	}
	s.metrics.CodesIssued.WithLabelValues(plan).Inc()

	// у доставки свои таймауты (SMTP, Mobizon 10s), таймаут хранилища к ней не относится
	if s.delivery != nil {
		if err := s.delivery.DeliverCode(context.WithoutCancel(ctx), user, plan, code); err != nil {
			log.Printf("[password-reset] delivery via %s failed for user_id=%d: %v", plan, user.ID, err)
		}
	}
	return nil
}

func (s *SessionService) SubmitReset(ctx context.Context, in ResetInput) (err error) {
	defer func() { s.metrics.PasswordReset.WithLabelValues(metrics.Result(err)).Inc() }()

	if strings.TrimSpace(in.Code) == "" {
		return validationError("code is required")
	}
	if in.NewPassword == "" {
		return validationError("new_password is required")
	}
	if in.NewPassword2 != "" && in.NewPassword2 != in.NewPassword {
		return validationError("new_password do not match")
	}

	wctx, cancel := s.writeCtx(ctx)
	defer cancel()

	user, err := s.activeUser(wctx, in.Username)
	if err != nil {
		return err
	}
	if err := s.codes.Consume(wctx, user, in.Code); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(wctx, user.ID, hash); err != nil {
		return err
	}
	log.Printf("[password-reset] password changed user_id=%d", user.ID)
	return nil
}

func (s *SessionService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return validationError("new_password is required")
	}

	wctx, cancel := s.writeCtx(ctx)
	defer cancel()

	user, err := s.activeUser(wctx, username)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if s.auth.CheckPassword(user.PasswordHash, newPassword) {
		return validationError("new password is same as old password choose another password")
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(wctx, user.ID, hash); err != nil {
		return err
	}
	log.Printf("[auth][password] changed user_id=%d", user.ID)
	return nil
}
