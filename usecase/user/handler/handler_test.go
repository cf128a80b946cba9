package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	blob_inmemory "github.com/dapur-gratis/resep-api/repository/blob/inmemory"
	"github.com/dapur-gratis/resep-api/repository/password"
	password_inmemory "github.com/dapur-gratis/resep-api/repository/password/inmemory"
	user_inmemory "github.com/dapur-gratis/resep-api/repository/user/inmemory"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/user"
)

func setup() (*blob_inmemory.Handler, user.Usecase) {
	store := blob_inmemory.New("http://assets.test")
	uc := New(
		user_inmemory.New(),
		password_inmemory.New(),
		attachment.New(store, attachment.DefaultPolicy(), "profile"),
	)
	return store, uc
}

func validUser() *entity.User {
	return &entity.User{
		Email:    "siti@example.com",
		Username: "siti",
	}
}

func avatarUpload() *entity.PendingUpload {
	return &entity.PendingUpload{
		Content:      []byte("jpeg-bytes"),
		ContentType:  "image/jpeg",
		OriginalName: "avatar.jpg",
	}
}

func TestRegister(t *testing.T) {
	store, uc := setup()

	created, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", avatarUpload())
	if errUC != nil {
		t.Fatalf("expected success, got: %v", errUC.Top().Message)
	}
	if created.Id == "" {
		t.Error("expected generated id")
	}
	if !strings.Contains(created.ImageUrl, "/profile/") {
		t.Errorf("expected avatar under profile partition, got %v", created.ImageUrl)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 blob, got %v", store.Len())
	}
}

func TestRegisterShortPassword(t *testing.T) {
	store, uc := setup()

	_, errUC := uc.Register(context.Background(), validUser(), "short", avatarUpload())
	if errUC == nil {
		t.Fatal("expected validation error")
	}
	if errUC.Top().HTTPCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", errUC.Top().HTTPCode)
	}
	if store.Len() != 0 {
		t.Errorf("expected no blob for rejected registration, got %v", store.Len())
	}
}

// brokenPasswordRepo refuses every credential write.
type brokenPasswordRepo struct {
	password.Repository
}

func (r *brokenPasswordRepo) Set(ctx context.Context, userID, password string) *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusBadGateway, Code: "REPOSITORY_FAILED", Message: "Credential store is down"},
		},
	}
}

func TestRegisterCredentialFailureRollsBackAvatar(t *testing.T) {
	store := blob_inmemory.New("http://assets.test")
	userRepo := user_inmemory.New()
	uc := New(
		userRepo,
		&brokenPasswordRepo{password_inmemory.New()},
		attachment.New(store, attachment.DefaultPolicy(), "profile"),
	)

	_, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", avatarUpload())
	if errUC == nil {
		t.Fatal("expected credential failure")
	}
	if errUC.Top().Code != "REPOSITORY_FAILED" {
		t.Errorf("expected REPOSITORY_FAILED, got %v", errUC.Top().Code)
	}
	if users, _ := userRepo.GetAll(context.Background()); len(users) != 0 {
		t.Errorf("expected user row rolled back, got %v rows", len(users))
	}
	if store.Len() != 0 {
		t.Errorf("expected avatar removed with the rollback, got %v blobs", store.Len())
	}
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	_, uc := setup()

	data := validUser()
	data.IsAdmin = true

	created, errUC := uc.Register(context.Background(), data, "rahasia-123", nil)
	if errUC != nil {
		t.Fatalf("register: %v", errUC.Top().Message)
	}
	if created.IsAdmin {
		t.Error("expected admin flag to be dropped")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, uc := setup()

	if _, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", nil); errUC != nil {
		t.Fatalf("first register: %v", errUC.Top().Message)
	}
	_, errUC := uc.Register(context.Background(), validUser(), "rahasia-456", nil)
	if errUC == nil {
		t.Fatal("expected conflict")
	}
	if errUC.Top().Code != "ALREADY_EXISTS" {
		t.Errorf("expected ALREADY_EXISTS, got %v", errUC.Top().Code)
	}
}

func TestUpdateAvatarIntents(t *testing.T) {
	store, uc := setup()

	created, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", avatarUpload())
	if errUC != nil {
		t.Fatalf("register: %v", errUC.Top().Message)
	}
	firstURL := created.ImageUrl

	// Replace
	replaceData := &entity.User{Id: created.Id, Email: created.Email, Username: "siti-baru"}
	updated, errUC := uc.Update(context.Background(), replaceData, entity.ReplaceImage(avatarUpload()))
	if errUC != nil {
		t.Fatalf("update: %v", errUC.Top().Message)
	}
	if updated.ImageUrl == firstURL || updated.ImageUrl == "" {
		t.Errorf("expected a fresh avatar url, got %v", updated.ImageUrl)
	}
	if store.Len() != 1 {
		t.Errorf("expected old avatar cleaned up, got %v blobs", store.Len())
	}

	// Remove
	removeData := &entity.User{Id: created.Id, Email: created.Email, Username: "siti-baru"}
	updated, errUC = uc.Update(context.Background(), removeData, entity.RemoveImage())
	if errUC != nil {
		t.Fatalf("update: %v", errUC.Top().Message)
	}
	if updated.ImageUrl != "" {
		t.Errorf("expected avatar cleared, got %v", updated.ImageUrl)
	}
	if store.Len() != 0 {
		t.Errorf("expected no blobs, got %v", store.Len())
	}
}

func TestUpdatePreservesServerOwnedFields(t *testing.T) {
	_, uc := setup()

	created, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", nil)
	if errUC != nil {
		t.Fatalf("register: %v", errUC.Top().Message)
	}
	if errUC := uc.RegisterFCMToken(context.Background(), created.Id, "device-1"); errUC != nil {
		t.Fatalf("register token: %v", errUC.Top().Message)
	}

	data := &entity.User{Id: created.Id, Email: created.Email, Username: "baru", IsAdmin: true}
	updated, errUC := uc.Update(context.Background(), data, entity.KeepImage())
	if errUC != nil {
		t.Fatalf("update: %v", errUC.Top().Message)
	}
	if updated.IsAdmin {
		t.Error("expected admin flag preserved as false")
	}
	if updated.FcmToken != "device-1" {
		t.Errorf("expected fcm token preserved, got %q", updated.FcmToken)
	}
}

func TestDeleteCleansUpAvatar(t *testing.T) {
	store, uc := setup()

	created, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", avatarUpload())
	if errUC != nil {
		t.Fatalf("register: %v", errUC.Top().Message)
	}

	if errUC := uc.Delete(context.Background(), created.Id); errUC != nil {
		t.Fatalf("delete: %v", errUC.Top().Message)
	}
	if _, errUC := uc.GetByID(context.Background(), created.Id); errUC == nil {
		t.Error("expected account to be gone")
	}
	if store.Len() != 0 {
		t.Errorf("expected avatar removed, got %v blobs", store.Len())
	}
}

func TestRegisterFCMTokenValidation(t *testing.T) {
	_, uc := setup()

	created, errUC := uc.Register(context.Background(), validUser(), "rahasia-123", nil)
	if errUC != nil {
		t.Fatalf("register: %v", errUC.Top().Message)
	}

	if errUC := uc.RegisterFCMToken(context.Background(), created.Id, ""); errUC == nil {
		t.Error("expected empty token to be rejected")
	}
	if errUC := uc.RegisterFCMToken(context.Background(), "no-such-user", "device-1"); errUC == nil {
		t.Error("expected unknown user to be rejected")
	}
}
