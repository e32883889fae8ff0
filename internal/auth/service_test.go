package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/internal/identity"
	"github.com/luiscarvajal/velamart-backend/internal/users"
	pkgAuth "github.com/luiscarvajal/velamart-backend/pkg/auth"
	"github.com/luiscarvajal/velamart-backend/pkg/config"
	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	"github.com/luiscarvajal/velamart-backend/pkg/enums"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "velamart-test",
	ExpirationMinutes: 15,
}

func TestLoginSuccessSignsHolderIn(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("hunter22!", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ana@velamart.test",
		PasswordHash: hash,
		FullName:     "Ana Costa",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	holder := identity.NewHolder()
	svc := newTestService(t, &stubUserRepo{byEmail: user, byID: user}, holder)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ana@Velamart.test", Password: "hunter22!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User.Email != user.Email {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}

	held, ok := holder.Current()
	if !ok || held.UserID != user.ID {
		t.Fatalf("expected holder to carry %s, got %+v ok=%v", user.ID, held, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("correct-password", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ana@velamart.test",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	svc := newTestService(t, &stubUserRepo{byEmail: user}, nil)

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserRepo{findErr: gorm.ErrRecordNotFound}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@velamart.test", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutClearsHolderEvenWhenRevokeFails(t *testing.T) {
	t.Parallel()

	holder := identity.NewHolder()
	holder.SignIn(identity.Identity{UserID: uuid.New()})

	sessions := &stubSessionManager{revokeErr: context.DeadlineExceeded}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{},
		SessionManager: sessions,
		Holder:         holder,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token := mintTestToken(t, uuid.New())
	err = svc.Logout(context.Background(), LogoutRequest{AccessToken: token})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, ok := holder.Current(); ok {
		t.Fatal("holder should be cleared despite revoke failure")
	}
}

func TestResolveSessionUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserRepo{findErr: gorm.ErrRecordNotFound}, nil)

	_, err := svc.ResolveSession(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUpdateProfileReturnsRefreshedRecord(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:       uuid.New(),
		Email:    "ana@velamart.test",
		FullName: "Ana Costa",
		Role:     enums.UserRoleCustomer,
		IsActive: true,
	}
	svc := newTestService(t, &stubUserRepo{byID: user}, nil)

	avatar := "https://cdn.velamart.test/avatars/ana.png"
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		FullName:  "Ana C. Silva",
		AvatarURL: &avatar,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.FullName != "Ana C. Silva" {
		t.Fatalf("unexpected full name %q", dto.FullName)
	}
	if dto.AvatarURL == nil || *dto.AvatarURL != avatar {
		t.Fatalf("unexpected avatar %v", dto.AvatarURL)
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, holder *identity.Holder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: &stubSessionManager{},
		Holder:         holder,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mintTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  "ana@velamart.test",
		Role:   enums.UserRoleCustomer,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubUserRepo struct {
	byEmail *models.User
	byID    *models.User
	findErr error
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.byEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byEmail, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, avatarURL, phone *string) error {
	if s.byID != nil {
		s.byID.FullName = fullName
		s.byID.AvatarURL = avatarURL
		s.byID.Phone = phone
	}
	return nil
}

type stubSessionManager struct {
	revokeErr error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return s.revokeErr
}
