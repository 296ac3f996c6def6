package service

import (
	"errors"
	"testing"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB, mailer AccountMailer) AuthService {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	if err := privilegeRepo.SeedDefaults(); err != nil {
		t.Fatalf("seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	// Mirror the boot-time role/privilege assignment
	staffPrivileges, err := privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
	if err != nil {
		t.Fatalf("staff privileges: %v", err)
	}
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err != nil {
		t.Fatalf("staff role: %v", err)
	}
	if err := db.Model(staffRole).Association("Privileges").Replace(staffPrivileges); err != nil {
		t.Fatalf("assign staff privileges: %v", err)
	}

	return NewAuthService(repository.NewUserRepo(db), roleRepo, repository.NewOtpRepo(db), mailer, nil)
}

func TestSignupVerifyLogin(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "new@example.com", Password: "secret123", FullName: "New User"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// The account is inactive until the OTP is verified
	if _, err := svc.Login("new@example.com", "secret123"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive got %v", err)
	}

	code := mailer.lastCode(t)
	if len(code) != 6 {
		t.Fatalf("expected 6 digit code got %q", code)
	}

	resp, err := svc.VerifyOtp("new@example.com", code)
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token after verification")
	}
	if !resp.User.IsActive {
		t.Fatal("expected account active after verification")
	}
	if mailer.welcomes != 1 {
		t.Fatalf("expected 1 welcome mail got %d", mailer.welcomes)
	}

	if _, err := svc.Login("new@example.com", "secret123"); err != nil {
		t.Fatalf("login after verification: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(t, db, &fakeAccountMailer{})

	req := &SignupRequest{Email: "dup@example.com", Password: "secret123", FullName: "Dup"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Signup(req); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists got %v", err)
	}
}

func TestVerifyOtpWrongCode(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "wrong@example.com", Password: "secret123", FullName: "Wrong"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.VerifyOtp("wrong@example.com", "000000"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp got %v", err)
	}
}

func TestVerifyOtpExpired(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "late@example.com", Password: "secret123", FullName: "Late"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Age the code past its validity window
	expired := time.Now().Add(-time.Minute)
	if err := db.Model(&model.OtpCode{}).Where("1 = 1").Update("expires_at", expired).Error; err != nil {
		t.Fatalf("age otp: %v", err)
	}

	code := mailer.lastCode(t)
	if _, err := svc.VerifyOtp("late@example.com", code); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp got %v", err)
	}
}

func TestVerifyOtpSingleUse(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "once@example.com", Password: "secret123", FullName: "Once"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}

	code := mailer.lastCode(t)
	if _, err := svc.VerifyOtp("once@example.com", code); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if _, err := svc.VerifyOtp("once@example.com", code); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp on reuse got %v", err)
	}
}

func TestResendOtpInvalidatesPrevious(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "resend@example.com", Password: "secret123", FullName: "Resend"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}
	firstCode := mailer.lastCode(t)

	if err := svc.ResendOtp("resend@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	secondCode := mailer.lastCode(t)

	if _, err := svc.VerifyOtp("resend@example.com", firstCode); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected stale code rejected got %v", err)
	}
	if _, err := svc.VerifyOtp("resend@example.com", secondCode); err != nil {
		t.Fatalf("verify latest code: %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	user := seedUser(t, db, "reset@example.com")

	if err := svc.RequestPasswordOtp(user.Email); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	code := mailer.lastCode(t)

	if err := svc.ResetPassword(user.Email, code, "newsecret"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if mailer.passwordChanges != 1 {
		t.Fatalf("expected 1 confirmation mail got %d", mailer.passwordChanges)
	}

	if _, err := svc.Login(user.Email, "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected got %v", err)
	}
	if _, err := svc.Login(user.Email, "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestSignupAssignsStaffRole(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAccountMailer{}
	svc := newAuthService(t, db, mailer)

	req := &SignupRequest{Email: "staff@example.com", Password: "secret123", FullName: "Staff"}
	if err := svc.Signup(req); err != nil {
		t.Fatalf("signup: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByEmail("staff@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Role == nil || user.Role.Code != model.RoleStaff {
		t.Fatal("expected signup account to carry the STAFF role")
	}
	if user.HasPrivilege("user:create") {
		t.Fatal("staff must not hold user management privileges")
	}
	if !user.HasPrivilege("sale:create") {
		t.Fatal("staff should hold sale:create")
	}
}

func TestLoginRotatesTokenVersion(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(t, db, &fakeAccountMailer{})
	user := seedUser(t, db, "single@example.com")

	first, err := svc.Login(user.Email, "secret123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := svc.Login(user.Email, "secret123"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	// The first session's token no longer matches the rotated version
	if _, err := svc.ValidateToken(first.Token); err == nil {
		t.Fatal("expected first session invalidated by second login")
	}
}
