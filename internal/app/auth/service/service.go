package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/dto"
	"github.com/veloxcart/ecommerce-api/internal/app/auth/token"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
	"github.com/veloxcart/ecommerce-api/internal/infra/ratelimit"
	"go.uber.org/zap"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO) error
	Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error)
	Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error)
	Logout(ctx context.Context, in dto.LogoutDTO) error
	ValidateAccess(ctx context.Context, raw string) (model.User, error)

	VerifyEmail(ctx context.Context, rawToken string) (alreadyVerified bool, err error)
	ResendVerification(ctx context.Context, in dto.ResendVerificationDTO) error

	RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequestDTO) error
	CheckPasswordReset(ctx context.Context, rawToken string) error
	ConfirmPasswordReset(ctx context.Context, in dto.PasswordResetConfirmDTO) error
	ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordDTO) error

	GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error)
}

type authService struct {
	users    repo.UserRepo
	oneTime  repo.OneTimeTokenStore
	sessions repo.SessionStore
	issuer   *token.Issuer
	mail     repo.MailQueue
	resends  *ratelimit.Keyed
	cfg      *config.Config
	v        *validator.Validate
	log      *zap.Logger
}

func New(
	users repo.UserRepo,
	oneTime repo.OneTimeTokenStore,
	sessions repo.SessionStore,
	issuer *token.Issuer,
	mail repo.MailQueue,
	resends *ratelimit.Keyed,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		users: users, oneTime: oneTime, sessions: sessions,
		issuer: issuer, mail: mail, resends: resends,
		cfg: cfg, v: v, log: log,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Role:         model.RoleCustomer,
		PasswordHash: passwordHash,
		IsActive:     false,
	}
	if _, err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "Register")
	}

	a.sendVerification(ctx, user)
	return nil
}

// sendVerification mints a verification token, registers its jti and queues
// the email. Notification is fire-and-forget: a failure here is logged and
// the user recovers through the resend endpoint.
func (a *authService) sendVerification(ctx context.Context, user model.User) {
	raw, claims, err := a.issuer.Issue(user.ID, token.TypeEmailVerification)
	if err != nil {
		a.log.Error("mint verification token", zap.Error(err))
		return
	}
	ttl := a.issuer.Lifetime(token.TypeEmailVerification)
	if err := a.oneTime.Register(ctx, string(token.TypeEmailVerification), claims.ID, ttl); err != nil {
		a.log.Error("register verification token", zap.Error(err))
		return
	}

	verifyURL := a.cfg.PublicBaseURL + "/api/auth/verify-email?token=" + raw
	msg := repo.MailMessage{
		To:      user.Email,
		Subject: "Verify your email address",
		TextBody: fmt.Sprintf(
			"Dear %s,\n\nPlease click the link below to verify your email:\n%s\n\nThank you!",
			nonEmpty(user.FullName(), "User"), verifyURL,
		),
	}
	if err := a.mail.Enqueue(ctx, msg); err != nil {
		a.log.Error("enqueue verification email", zap.String("to", user.Email), zap.Error(err))
	}
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.users.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.TokenPair{}, customErrors.ErrNotVerified
	}

	return a.issuePair(ctx, user)
}

func (a *authService) issuePair(ctx context.Context, user model.User) (model.TokenPair, error) {
	access, accessClaims, err := a.issuer.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueAccess")
	}
	refresh, refreshClaims, err := a.issuer.Issue(user.ID, token.TypeRefresh)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueRefresh")
	}
	if err := a.sessions.Store(ctx, refreshClaims.ID, refreshClaims.ExpiresAt.Time); err != nil {
		return model.TokenPair{}, err
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    accessClaims.ExpiresAt.Sub(now),
		RefreshTTL:   refreshClaims.ExpiresAt.Sub(now),
		UserID:       user.ID,
	}, nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.issuer.Parse(in.RefreshToken, token.TypeRefresh)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	revoked, err := a.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.TokenPair{}, err
	}
	if revoked {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	if err := a.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return model.TokenPair{}, err
	}
	if in.AccessToken != "" {
		if acc, errAcc := a.issuer.Parse(in.AccessToken, token.TypeAccess); errAcc == nil {
			_ = a.sessions.RevokeAccess(ctx, acc.ID, acc.ExpiresAt.Time)
		}
	}

	uid, err := claims.SubjectID()
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	user, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	return a.issuePair(ctx, user)
}

func (a *authService) Logout(ctx context.Context, in dto.LogoutDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.issuer.Parse(in.RefreshToken, token.TypeRefresh)
	if err != nil {
		return customErrors.ErrInvalidToken
	}
	if err := a.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	// An already expired access token is not an error at logout.
	if acc, err := a.issuer.Parse(in.AccessToken, token.TypeAccess); err == nil {
		_ = a.sessions.RevokeAccess(ctx, acc.ID, acc.ExpiresAt.Time)
	}
	return nil
}

func (a *authService) ValidateAccess(ctx context.Context, raw string) (model.User, error) {
	claims, err := a.issuer.Parse(raw, token.TypeAccess)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}

	revoked, err := a.sessions.IsAccessRevoked(ctx, claims.ID)
	if err != nil {
		return model.User{}, err
	}
	if revoked {
		return model.User{}, customErrors.ErrInvalidToken
	}

	uid, err := claims.SubjectID()
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}
	user, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}
	return user, nil
}

// VerifyEmail runs the redemption protocol: stateless signature/type/expiry
// checks first, then the atomic one-time redemption, then the subject lookup
// and the bound action. The bound action is best-effort once redemption
// succeeded; it is not rolled back.
func (a *authService) VerifyEmail(ctx context.Context, rawToken string) (bool, error) {
	claims, err := a.issuer.Parse(rawToken, token.TypeEmailVerification)
	if err != nil {
		return false, err
	}

	redeemed, err := a.oneTime.Redeem(ctx, string(token.TypeEmailVerification), claims.ID)
	if err != nil {
		return false, err
	}
	if !redeemed {
		return false, customErrors.ErrTokenUsedOrUnknown
	}

	uid, err := claims.SubjectID()
	if err != nil {
		return false, customErrors.ErrInvalidToken
	}
	user, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return false, err
	}

	if user.IsActive {
		return true, nil
	}
	user.IsActive = true
	if err := a.users.UpdateUser(ctx, user); err != nil {
		return false, customErrors.WrapInternal(err, "VerifyEmail")
	}
	return false, nil
}

func (a *authService) ResendVerification(ctx context.Context, in dto.ResendVerificationDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	if ok, retryAfter := a.resends.Allow(in.Email); !ok {
		return &customErrors.RateLimitedError{RetryAfter: retryAfter}
	}

	user, err := a.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return customErrors.NewInvalidArgument("email already verified")
	}

	a.sendVerification(ctx, user)
	return nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequestDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}

	raw, claims, err := a.issuer.Issue(user.ID, token.TypePasswordReset)
	if err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}
	ttl := a.issuer.Lifetime(token.TypePasswordReset)
	if err := a.oneTime.Register(ctx, string(token.TypePasswordReset), claims.ID, ttl); err != nil {
		return err
	}

	resetURL := a.cfg.PublicBaseURL + "/api/auth/password-reset/confirm?token=" + raw
	msg := repo.MailMessage{
		To:      user.Email,
		Subject: "Password Reset Request",
		TextBody: fmt.Sprintf(
			"Dear %s,\n\nWe received a password reset request for your account.\n"+
				"Click the link below to reset your password:\n%s\n\n"+
				"If you did not request this, you can ignore this email.",
			nonEmpty(user.FullName(), "User"), resetURL,
		),
	}
	if err := a.mail.Enqueue(ctx, msg); err != nil {
		a.log.Error("enqueue password reset email", zap.String("to", user.Email), zap.Error(err))
	}
	return nil
}

// CheckPasswordReset is the non-consuming dry-run used by the link-click GET.
// It deliberately stops short of Redeem; only the POST consumes the token.
func (a *authService) CheckPasswordReset(ctx context.Context, rawToken string) error {
	claims, err := a.issuer.Parse(rawToken, token.TypePasswordReset)
	if err != nil {
		return err
	}

	live, err := a.oneTime.Exists(ctx, string(token.TypePasswordReset), claims.ID)
	if err != nil {
		return err
	}
	if !live {
		return customErrors.ErrTokenUsedOrUnknown
	}

	uid, err := claims.SubjectID()
	if err != nil {
		return customErrors.ErrInvalidToken
	}
	if _, err := a.users.GetUserByID(ctx, uid); err != nil {
		return err
	}
	return nil
}

func (a *authService) ConfirmPasswordReset(ctx context.Context, in dto.PasswordResetConfirmDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.issuer.Parse(in.Token, token.TypePasswordReset)
	if err != nil {
		return err
	}

	redeemed, err := a.oneTime.Redeem(ctx, string(token.TypePasswordReset), claims.ID)
	if err != nil {
		return err
	}
	if !redeemed {
		return customErrors.ErrTokenUsedOrUnknown
	}

	uid, err := claims.SubjectID()
	if err != nil {
		return customErrors.ErrInvalidToken
	}
	user, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return err
	}

	passwordHash, err := argon2id.CreateHash(in.NewPassword+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return customErrors.WrapInternal(err, "ConfirmPasswordReset")
	}
	user.PasswordHash = passwordHash
	if err := a.users.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "ConfirmPasswordReset")
	}
	return nil
}

func (a *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := argon2id.ComparePasswordAndHash(in.OldPassword+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	if !ok {
		return customErrors.NewInvalidArgument("old password is incorrect")
	}

	passwordHash, err := argon2id.CreateHash(in.NewPassword+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	user.PasswordHash = passwordHash
	if err := a.users.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	return nil
}

func (a *authService) GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	return a.users.GetUserByID(ctx, userID)
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if err := a.users.UpdateUser(ctx, user); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	return user, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
