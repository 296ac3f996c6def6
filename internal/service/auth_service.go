package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive or not verified")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidOtp         = errors.New("invalid or expired verification code")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

const otpValidity = 5 * time.Minute

type AuthService interface {
	Signup(req *SignupRequest) error
	VerifyOtp(email, code string) (*LoginResponse, error)
	ResendOtp(email string) error
	RequestPasswordOtp(email string) error
	ResetPassword(email, code, newPassword string) error
	Login(email, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	otpRepo  repository.OtpRepository
	mailer   AccountMailer
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, otpRepo repository.OtpRepository, mailer AccountMailer, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		otpRepo:  otpRepo,
		mailer:   mailer,
		wsHub:    hub,
	}
}

// Signup registers an inactive STAFF account and mails a verification code.
// The account cannot log in until the code is verified.
func (s *authService) Signup(req *SignupRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return ErrEmailExists
	}

	staffRole, err := s.roleRepo.FindByCode(model.RoleStaff)
	if err != nil {
		return errors.New("staff role not seeded")
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &staffRole.ID,
		IsActive:    false,
		Privileges:  staffRole.Privileges,
	}
	user.CreatedBy = "signup"
	user.UpdatedBy = "signup"
	if err := user.SetPassword(req.Password); err != nil {
		return errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	return s.issueOtp(user, model.OtpPurposeSignup)
}

// VerifyOtp activates the account and logs the user in.
func (s *authService) VerifyOtp(email, code string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.consumeOtp(user, model.OtpPurposeSignup, code); err != nil {
		return nil, err
	}

	user.IsActive = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if err := s.mailer.Welcome(user.Email, user.FullName); err != nil {
		log.Printf("unable to send welcome mail: %v", err)
	}

	return s.issueSession(user)
}

func (s *authService) ResendOtp(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if user.IsActive {
		return errors.New("account is already verified")
	}
	return s.issueOtp(user, model.OtpPurposeSignup)
}

func (s *authService) RequestPasswordOtp(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	return s.issueOtp(user, model.OtpPurposeReset)
}

// ResetPassword sets a new password after OTP verification and invalidates
// every existing session.
func (s *authService) ResetPassword(email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("new password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.consumeOtp(user, model.OtpPurposeReset, code); err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.mailer.PasswordChanged(user.Email, user.FullName); err != nil {
		log.Printf("unable to send password reset confirmation: %v", err)
	}
	return nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Strict single session: the token must carry the current version
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	// Inactivity check against LastSeenAt, refreshed by Heartbeat
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > 5*time.Minute {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	if s.wsHub != nil {
		s.wsHub.Publish(ws.Event{
			Type: "user_status_update",
			Payload: map[string]interface{}{
				"user_id":      userID.String(),
				"status":       "online",
				"last_seen_at": time.Now(),
			},
		})
	}
	return nil
}

// issueSession rotates the token version (single session) and builds the
// login response.
func (s *authService) issueSession(user *model.User) (*LoginResponse, error) {
	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// issueOtp burns outstanding codes, stores a fresh one and mails it.
func (s *authService) issueOtp(user *model.User, purpose model.OtpPurpose) error {
	if err := s.otpRepo.InvalidateAll(user.ID, purpose); err != nil {
		return err
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	otp := &model.OtpCode{
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpValidity),
		UserID:    user.ID,
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return err
	}

	if err := s.mailer.OtpCode(user.Email, user.FullName, code); err != nil {
		log.Printf("unable to send otp code: %v", err)
	}
	return nil
}

// consumeOtp validates and burns the latest code for the purpose.
func (s *authService) consumeOtp(user *model.User, purpose model.OtpPurpose, code string) error {
	otp, err := s.otpRepo.FindLatest(user.ID, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOtp
		}
		return err
	}
	if otp.Code != code || otp.Expired() {
		return ErrInvalidOtp
	}
	return s.otpRepo.MarkUsed(otp.ID)
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
