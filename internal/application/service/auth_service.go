package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/email"
	"github.com/sangkips/restaurant-pos-api/pkg/oauth"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
)

const (
	VerifyCodeTTL    = 15 * time.Minute
	ResetTokenTTL    = time.Hour
	MinPasswordLen   = 8
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	resetTokenLength = 32
)

// AuthService handles authentication-related operations
type AuthService struct {
	tx                repository.TxManager
	userRepo          repository.UserRepository
	roleRepo          repository.RoleRepository
	customerRepo      repository.CustomerRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	mailer            email.Sender
	now               func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	tx repository.TxManager,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	customerRepo repository.CustomerRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	mailer email.Sender,
) *AuthService {
	return &AuthService{
		tx:                tx,
		userRepo:          userRepo,
		roleRepo:          roleRepo,
		customerRepo:      customerRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		mailer:            mailer,
		now:               time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	switch user.Status {
	case enum.UserStatusInactive:
		return nil, apperror.ErrAccountInactive
	case enum.UserStatusPendingVerify:
		return nil, apperror.ErrEmailNotVerified
	}

	return s.issueTokens(ctx, user.ID, true)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a customer account in pending_verify and mails a six digit code.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	addr := normalizeEmail(input.Email)
	if len(input.Password) < MinPasswordLen {
		return nil, apperror.NewFieldError("password", "must be at least 8 characters")
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(VerifyCodeTTL)

	user := &entity.User{
		Name:                strings.TrimSpace(input.Name),
		Email:               addr,
		Password:            hashedPassword,
		Status:              enum.UserStatusPendingVerify,
		Provider:            ProviderLocal,
		VerifyCode:          &code,
		VerifyCodeExpiresAt: &expires,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.createCustomerAccount(ctx, user, input.Phone); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(user.Email, user.Name, code); err != nil {
		log.Printf("verification code not sent to %s: %v", user.Email, err)
	}

	return user, nil
}

// VerifyEmail activates a pending account when the code matches and has not expired.
func (s *AuthService) VerifyEmail(ctx context.Context, addr, code string) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(addr))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != enum.UserStatusPendingVerify {
		return nil, apperror.NewBadRequestError("Invalid or expired verification code")
	}
	if user.VerifyCode == nil || *user.VerifyCode != strings.TrimSpace(code) ||
		user.VerifyCodeExpiresAt == nil || !s.now().Before(*user.VerifyCodeExpiresAt) {
		return nil, apperror.NewBadRequestError("Invalid or expired verification code")
	}

	now := s.now()
	user.Status = enum.UserStatusActive
	user.EmailVerifiedAt = &now
	user.VerifyCode = nil
	user.VerifyCodeExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user.ID, true)
}

// ResendVerificationCode issues a fresh code. Unknown or already verified
// addresses succeed silently.
func (s *AuthService) ResendVerificationCode(ctx context.Context, addr string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(addr))
	if err != nil {
		return err
	}
	if user == nil || user.Status != enum.UserStatusPendingVerify {
		return nil
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(VerifyCodeTTL)
	user.VerifyCode = &code
	user.VerifyCodeExpiresAt = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(user.Email, user.Name, code); err != nil {
		log.Printf("verification code not sent to %s: %v", user.Email, err)
	}
	return nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	out, err := s.issueTokens(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if out.User.Status != enum.UserStatusActive {
		return nil, apperror.ErrAccountInactive
	}
	return out, nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	if len(input.NewPassword) < MinPasswordLen {
		return apperror.NewFieldError("new_password", "must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	Name      string
	AvatarURL *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.GetCurrentUser(ctx, user.ID)
}

// ForgotPassword mails a reset link. It never reveals whether the address exists.
func (s *AuthService) ForgotPassword(ctx context.Context, addr string) error {
	addr = normalizeEmail(addr)
	user, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		log.Printf("forgot password lookup failed: %v", err)
		return nil
	}
	if user == nil {
		return nil
	}

	if err := s.passwordResetRepo.DeleteByEmail(ctx, addr); err != nil {
		return err
	}

	token, err := utils.GenerateSecureToken(resetTokenLength)
	if err != nil {
		return err
	}

	resetToken := &entity.PasswordResetToken{
		Email:     addr,
		Token:     token,
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(addr, token); err != nil {
		log.Printf("password reset email not sent to %s: %v", addr, err)
	}
	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// ResetPassword resets the user's password using a valid token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	invalid := apperror.NewBadRequestError("Invalid or expired reset token")
	if len(input.NewPassword) < MinPasswordLen {
		return apperror.NewFieldError("new_password", "must be at least 8 characters")
	}
	addr := normalizeEmail(input.Email)

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		resetToken, err := s.passwordResetRepo.GetByToken(ctx, input.Token)
		if err != nil {
			return err
		}
		if resetToken == nil || resetToken.Email != addr || !resetToken.Usable(s.now()) {
			return invalid
		}

		user, err := s.userRepo.GetByEmail(ctx, addr)
		if err != nil {
			return err
		}
		if user == nil {
			return invalid
		}

		hashedPassword, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			return err
		}
		user.Password = hashedPassword
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}

		if err := s.passwordResetRepo.MarkAsUsed(ctx, input.Token); err != nil {
			return err
		}
		return s.passwordResetRepo.DeleteByEmail(ctx, addr)
	})
}

// GoogleLogin signs in the owner of a verified Google profile, creating an
// active customer account on first use.
func (s *AuthService) GoogleLogin(ctx context.Context, info *oauth.GoogleUserInfo) (*LoginOutput, error) {
	if info == nil || info.Email == "" {
		return nil, apperror.ErrInvalidToken
	}
	if !info.VerifiedEmail {
		return nil, apperror.ErrEmailNotVerified
	}
	addr := normalizeEmail(info.Email)

	user, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if user == nil {
		providerID := info.ID
		user = &entity.User{
			Name:            info.Name,
			Email:           addr,
			Status:          enum.UserStatusActive,
			Provider:        ProviderGoogle,
			ProviderID:      &providerID,
			EmailVerifiedAt: &now,
		}
		if info.Picture != "" {
			user.AvatarURL = &info.Picture
		}
		if user.Name == "" {
			user.Name = addr
		}
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.createCustomerAccount(ctx, user, "")
		})
		if err != nil {
			return nil, err
		}
	} else {
		if user.Status == enum.UserStatusInactive {
			return nil, apperror.ErrAccountInactive
		}
		if user.Status == enum.UserStatusPendingVerify {
			// Google has verified the address for us.
			user.Status = enum.UserStatusActive
			user.EmailVerifiedAt = &now
			user.VerifyCode = nil
			user.VerifyCodeExpiresAt = nil
		}
		if user.ProviderID == nil {
			providerID := info.ID
			user.ProviderID = &providerID
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user.ID, true)
}

func (s *AuthService) createCustomerAccount(ctx context.Context, user *entity.User, phone string) error {
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	role, err := s.roleRepo.GetByName(ctx, entity.RoleCustomer)
	if err != nil {
		return err
	}
	if role == nil {
		return apperror.NewNotFoundError("Role " + entity.RoleCustomer)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return err
	}

	customer := &entity.Customer{
		UserID:   &user.ID,
		Name:     user.Name,
		Email:    &user.Email,
		JoinedAt: s.now(),
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		customer.Phone = &phone
	}
	return s.customerRepo.Create(ctx, customer)
}

// issueTokens reloads the user with roles so the access token carries current permissions.
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID, touchLogin bool) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	if touchLogin {
		now := s.now()
		user.LastLoginAt = &now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.RoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
