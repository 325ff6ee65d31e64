package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port/mock"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"go.uber.org/mock/gomock"
)

func setupUserService(t *testing.T) (*UserService, *mock.MockUserPort, *mock.MockTokenPort) {
	ctrl := gomock.NewController(t)
	userRepo := mock.NewMockUserPort(ctrl)
	tokens := mock.NewMockTokenPort(ctrl)
	return NewUserService(userRepo, tokens), userRepo, tokens
}

func newTestUser(t *testing.T, password string, isAdmin bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Jane", "jane@example.com", password, isAdmin)
	if err != nil {
		t.Fatalf("failed to build user: %v", err)
	}
	user.ID = "aabbccddee112233aabbccdd"
	return user
}

func TestUserService_Register(t *testing.T) {
	req := &dto.RegisterUserRequest{Name: "Jane", Email: "Jane@Example.com", Password: "s3cret!"}

	t.Run("success", func(t *testing.T) {
		svc, userRepo, tokens := setupUserService(t)

		userRepo.EXPECT().
			GetByEmail(gomock.Any(), "jane@example.com").
			Return(nil, serviceerrors.NewNotFoundError("user not found"))
		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				u.ID = "aabbccddee112233aabbccdd"
				return nil
			})
		tokens.EXPECT().Issue(domain.ID("aabbccddee112233aabbccdd")).Return("signed-token", nil)

		user, token, err := svc.Register(context.Background(), req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "signed-token" {
			t.Fatalf("expected token, got %q", token)
		}
		if user.Email != "jane@example.com" || user.IsAdmin {
			t.Fatalf("unexpected user %+v", user)
		}
	})

	t.Run("email taken", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(newTestUser(t, "x", false), nil)

		_, _, err := svc.Register(context.Background(), req)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) || err.Error() != "User already exists" {
			t.Fatalf("expected User already exists, got %v", err)
		}
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))

		long := &dto.RegisterUserRequest{Name: "Jane", Email: "jane@example.com", Password: strings.Repeat("€", 30)}
		_, _, err := svc.Register(context.Background(), long)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})

	t.Run("duplicate key on insert", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(serviceerrors.NewConflictError("duplicate key"))

		_, _, err := svc.Register(context.Background(), req)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, userRepo, tokens := setupUserService(t)
		user := newTestUser(t, "s3cret!", false)

		userRepo.EXPECT().GetByEmail(gomock.Any(), "jane@example.com").Return(user, nil)
		tokens.EXPECT().Issue(user.ID).Return("signed-token", nil)

		got, token, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " JANE@example.com", Password: "s3cret!"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID != user.ID || token != "signed-token" {
			t.Fatalf("unexpected login result %+v %q", got, token)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(newTestUser(t, "s3cret!", false), nil)

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "nope"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthorized) || err.Error() != "Invalid email or password" {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "x"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		svc, userRepo, tokens := setupUserService(t)
		user := newTestUser(t, "s3cret!", true)

		tokens.EXPECT().Verify("good").Return(user.ID, nil)
		userRepo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		caller, err := svc.Authenticate(context.Background(), "good")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if caller.ID != user.ID || !caller.IsAdmin {
			t.Fatalf("unexpected caller %+v", caller)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _, tokens := setupUserService(t)

		tokens.EXPECT().Verify("bad").Return(domain.ID(""), errors.New("signature is invalid"))

		_, err := svc.Authenticate(context.Background(), "bad")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthorized) || err.Error() != "Not authorized, token failed" {
			t.Fatalf("expected token failed, got %v", err)
		}
	})

	t.Run("user no longer exists", func(t *testing.T) {
		svc, userRepo, tokens := setupUserService(t)

		tokens.EXPECT().Verify("orphan").Return(domain.ID("aabbccddee112233aabbccdd"), nil)
		userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))

		_, err := svc.Authenticate(context.Background(), "orphan")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func TestUserService_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)
		user := newTestUser(t, "s3cret!", false)

		userRepo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		got, err := svc.GetByID(context.Background(), user.ID)
		if err != nil || got != user {
			t.Fatalf("expected user, got %v / %v", got, err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))

		_, err := svc.GetByID(context.Background(), "aabbccddee112233aabbccdd")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) || err.Error() != "User not found" {
			t.Fatalf("expected User not found, got %v", err)
		}
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(nil, serviceerrors.NewNotFoundError("user not found"))
		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				if !u.IsAdmin {
					t.Fatal("expected admin user")
				}
				return nil
			})

		if _, err := svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "changeme"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("promotes existing user", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)
		user := newTestUser(t, "s3cret!", false)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
		userRepo.EXPECT().SetAdmin(gomock.Any(), user.ID, true).Return(nil)

		got, err := svc.EnsureAdmin(context.Background(), "Jane", "jane@example.com", "ignored")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !got.IsAdmin {
			t.Fatal("expected user to be promoted")
		}
	})

	t.Run("already admin", func(t *testing.T) {
		svc, userRepo, _ := setupUserService(t)

		userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(newTestUser(t, "s3cret!", true), nil)

		if _, err := svc.EnsureAdmin(context.Background(), "Jane", "jane@example.com", "ignored"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
