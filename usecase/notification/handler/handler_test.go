package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/dapur-gratis/resep-api/lib/push"
	notificationinmemory "github.com/dapur-gratis/resep-api/repository/notification/inmemory"
	userinmemory "github.com/dapur-gratis/resep-api/repository/user/inmemory"
	"github.com/dapur-gratis/resep-api/types/entity"
)

// fakeMessenger records delivered tokens and fails the ones listed in failing.
type fakeMessenger struct {
	mtx       sync.Mutex
	delivered []string
	failing   map[string]bool
}

func (f *fakeMessenger) Send(ctx context.Context, message push.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failing[message.Token] {
		return errors.New("UNREGISTERED")
	}
	f.delivered = append(f.delivered, message.Token)
	return nil
}

func setup(t *testing.T, deviceCount int) (*fakeMessenger, *handler) {
	t.Helper()
	messenger := &fakeMessenger{failing: make(map[string]bool)}
	userRepo := userinmemory.New()
	for i := 0; i < deviceCount; i++ {
		created, errUC := userRepo.Create(context.Background(), &entity.User{
			Email:    fmt.Sprintf("user-%v@example.com", i),
			Username: fmt.Sprintf("user-%v", i),
		})
		if errUC != nil {
			t.Fatalf("seed user: %v", errUC.Top().Message)
		}
		if errUC := userRepo.SetFCMToken(context.Background(), created.Id, fmt.Sprintf("token-%v", i)); errUC != nil {
			t.Fatalf("seed token: %v", errUC.Top().Message)
		}
	}
	return messenger, New(messenger, userRepo, notificationinmemory.New())
}

func TestBroadcastCounts(t *testing.T) {
	for _, tc := range []struct {
		name    string
		devices int
	}{
		{"no devices", 0},
		{"single device", 1},
		{"full batch", 500},
		{"spills into second batch", 501},
	} {
		t.Run(tc.name, func(t *testing.T) {
			messenger, uc := setup(t, tc.devices)

			report, errUC := uc.Broadcast(context.Background(), "admin-1", "Pengumuman", "Resep minggu ini")
			if errUC != nil {
				t.Fatalf("expected success, got: %v", errUC.Top().Message)
			}
			if report.Sent != tc.devices {
				t.Errorf("expected %v sent, got %v", tc.devices, report.Sent)
			}
			if report.Failed != 0 {
				t.Errorf("expected 0 failed, got %v", report.Failed)
			}
			if len(messenger.delivered) != tc.devices {
				t.Errorf("expected %v deliveries, got %v", tc.devices, len(messenger.delivered))
			}
		})
	}
}

func TestBroadcastCountsFailures(t *testing.T) {
	messenger, uc := setup(t, 5)
	messenger.failing["token-1"] = true
	messenger.failing["token-3"] = true

	report, errUC := uc.Broadcast(context.Background(), "admin-1", "Pengumuman", "Isi")
	if errUC != nil {
		t.Fatalf("expected success, got: %v", errUC.Top().Message)
	}
	if report.Sent != 3 || report.Failed != 2 {
		t.Errorf("expected 3 sent / 2 failed, got %v / %v", report.Sent, report.Failed)
	}
}

func TestBroadcastCancelledContext(t *testing.T) {
	messenger, uc := setup(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errUC := uc.Broadcast(ctx, "admin-1", "Pengumuman", "Isi")
	if errUC == nil {
		t.Fatal("expected broadcast to abort")
	}
	if errUC.Top().Code != "BROADCAST_ABORTED" {
		t.Errorf("expected BROADCAST_ABORTED, got %v", errUC.Top().Code)
	}
	if len(messenger.delivered) != 0 {
		t.Errorf("expected no deliveries, got %v", len(messenger.delivered))
	}
}

func TestBroadcastRecordsHistory(t *testing.T) {
	_, uc := setup(t, 2)

	if _, errUC := uc.Broadcast(context.Background(), "admin-1", "Pertama", "Isi 1"); errUC != nil {
		t.Fatalf("broadcast: %v", errUC.Top().Message)
	}
	if _, errUC := uc.Broadcast(context.Background(), "admin-1", "Kedua", "Isi 2"); errUC != nil {
		t.Fatalf("broadcast: %v", errUC.Top().Message)
	}

	history, errUC := uc.History(context.Background())
	if errUC != nil {
		t.Fatalf("history: %v", errUC.Top().Message)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %v", len(history))
	}
	// Newest first
	if history[0].Title != "Kedua" || history[1].Title != "Pertama" {
		t.Errorf("unexpected order: %v, %v", history[0].Title, history[1].Title)
	}
	if history[0].SentBy != "admin-1" {
		t.Errorf("expected sender to be recorded, got %v", history[0].SentBy)
	}
}

func TestBroadcastRejectsEmpty(t *testing.T) {
	messenger, uc := setup(t, 3)

	_, errUC := uc.Broadcast(context.Background(), "admin-1", "", "")
	if errUC == nil {
		t.Fatal("expected validation error")
	}
	if errUC.Top().HTTPCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", errUC.Top().HTTPCode)
	}
	if len(messenger.delivered) != 0 {
		t.Error("expected no deliveries for invalid broadcast")
	}
}

func TestHistoryCapped(t *testing.T) {
	_, uc := setup(t, 0)

	for i := 0; i < 25; i++ {
		if _, errUC := uc.Broadcast(context.Background(), "admin-1", fmt.Sprintf("Judul %v", i), "Isi"); errUC != nil {
			t.Fatalf("broadcast %v: %v", i, errUC.Top().Message)
		}
	}

	history, errUC := uc.History(context.Background())
	if errUC != nil {
		t.Fatalf("history: %v", errUC.Top().Message)
	}
	if len(history) != historyLimit {
		t.Errorf("expected %v entries, got %v", historyLimit, len(history))
	}
	if history[0].Title != "Judul 24" {
		t.Errorf("expected newest first, got %v", history[0].Title)
	}
}

func TestSendToDevice(t *testing.T) {
	messenger := &fakeMessenger{failing: make(map[string]bool)}
	userRepo := userinmemory.New()
	uc := New(messenger, userRepo, notificationinmemory.New())

	created, errUC := userRepo.Create(context.Background(), &entity.User{Email: "a@example.com", Username: "a"})
	if errUC != nil {
		t.Fatalf("seed: %v", errUC.Top().Message)
	}

	// No token registered yet
	if errUC := uc.SendToDevice(context.Background(), created.Id, "Halo", "Isi"); errUC == nil {
		t.Fatal("expected NO_DEVICE_TOKEN")
	} else if errUC.Top().Code != "NO_DEVICE_TOKEN" {
		t.Errorf("expected NO_DEVICE_TOKEN, got %v", errUC.Top().Code)
	}

	if errUC := userRepo.SetFCMToken(context.Background(), created.Id, "device-a"); errUC != nil {
		t.Fatalf("set token: %v", errUC.Top().Message)
	}
	if errUC := uc.SendToDevice(context.Background(), created.Id, "Halo", "Isi"); errUC != nil {
		t.Fatalf("expected success, got: %v", errUC.Top().Message)
	}
	if len(messenger.delivered) != 1 || messenger.delivered[0] != "device-a" {
		t.Errorf("expected delivery to device-a, got %v", messenger.delivered)
	}

	// Unknown user
	if errUC := uc.SendToDevice(context.Background(), "no-such-user", "Halo", "Isi"); errUC == nil {
		t.Fatal("expected NOT_FOUND")
	}
}
