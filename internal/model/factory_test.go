package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrportal/internal/config"
	"hrportal/internal/entity"

	"gorm.io/gorm"
)

func newSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := InitRepository(config.Config{DBType: DBTypeSQLite, DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreateRepositoryRejectsUnknownType(t *testing.T) {
	if _, err := InitRepository(config.Config{DBType: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	record := &entity.DbSession{
		ID:        "s1",
		Token:     "tok",
		UserID:    7,
		RoleID:    1,
		Flash:     entity.ToastList{{Title: "Login successfully", Status: entity.ToastSuccess, Duration: 2 * time.Second}},
		ExpiresAt: expires,
	}
	if err := repo.SaveSession(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "tok" || got.UserID != 7 || got.RoleID != 1 {
		t.Fatalf("unexpected session %+v", got)
	}
	if len(got.Flash) != 1 || got.Flash[0].Title != "Login successfully" {
		t.Fatalf("unexpected flash %+v", got.Flash)
	}

	record.Token = ""
	record.Flash = nil
	if err := repo.SaveSession(ctx, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.HasLogin() || len(got.Flash) != 0 {
		t.Fatalf("upsert did not replace fields: %+v", got)
	}

	if err := repo.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetSession(ctx, "s1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for id, exp := range map[string]time.Time{"old": now.Add(-time.Minute), "fresh": now.Add(time.Minute)} {
		if err := repo.SaveSession(ctx, &entity.DbSession{ID: id, ExpiresAt: exp}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	n, err := repo.PurgeExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
	if _, err := repo.GetSession(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}
