//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/testutil/testdb"
	"go.uber.org/zap"
)

func TestTeacherStore_AddAndUniqueness(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	teachers := db.NewTeacherStore(h.DB, zap.NewNop())

	ok, reason, err := teachers.Add(ctx, "T001", "Jane Doe", 555)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected add to succeed, got reason %q", reason)
	}

	// тот же код
	ok, reason, err = teachers.Add(ctx, "T001", "Someone Else", 556)
	if err != nil {
		t.Fatal(err)
	}
	if ok || reason == "" {
		t.Fatalf("duplicate ID must be rejected with a reason, got ok=%v reason=%q", ok, reason)
	}

	// тот же telegram id — конфликт уникальности, прежняя привязка сохраняется
	ok, reason, err = teachers.Add(ctx, "T002", "Someone Else", 555)
	if err != nil {
		t.Fatal(err)
	}
	if ok || reason == "" {
		t.Fatalf("duplicate telegram ID must be rejected, got ok=%v reason=%q", ok, reason)
	}
	id, found, err := teachers.FindByTelegramID(ctx, 555)
	if err != nil {
		t.Fatal(err)
	}
	if !found || id != "T001" {
		t.Fatalf("reverse index must still point to T001, got %q found=%v", id, found)
	}

	// невалидные данные не доходят до хранилища
	for _, bad := range []struct {
		id   string
		name string
		tgID int64
	}{
		{"ab", "Jane Doe", 700},
		{"T003", "abc", 700},
		{"T003", "Jane Doe", -1},
	} {
		ok, reason, err := teachers.Add(ctx, bad.id, bad.name, bad.tgID)
		if err != nil {
			t.Fatal(err)
		}
		if ok || reason == "" {
			t.Fatalf("expected validation rejection for %+v", bad)
		}
	}
}

func TestTeacherStore_Lifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	teachers := db.NewTeacherStore(h.DB, zap.NewNop())
	groups := db.NewGroupStore(h.DB, zap.NewNop())
	assignments := db.NewAssignmentStore(h.DB)

	if ok, reason, err := teachers.Add(ctx, "T010", "Aliyev Vali", 1001); err != nil || !ok {
		t.Fatalf("add: ok=%v reason=%q err=%v", ok, reason, err)
	}
	if ok, _, err := groups.Add(ctx, -42, "Math 5A"); err != nil || !ok {
		t.Fatalf("group add failed: %v", err)
	}
	if _, _, err := assignments.Toggle(ctx, "T010", -42); err != nil {
		t.Fatal(err)
	}

	if ok, reason, err := teachers.Rename(ctx, "T010", "Aliyev Vali Valiyevich"); err != nil || !ok {
		t.Fatalf("rename: ok=%v reason=%q err=%v", ok, reason, err)
	}
	got, err := teachers.Get(ctx, "T010")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.FullName != "Aliyev Vali Valiyevich" {
		t.Fatalf("unexpected teacher after rename: %+v", got)
	}

	if ok, err := teachers.SetActive(ctx, "T010", false); err != nil || !ok {
		t.Fatalf("set active: %v", err)
	}
	got, _ = teachers.Get(ctx, "T010")
	if got.Active {
		t.Fatal("teacher must be inactive")
	}

	// удаление сносит рёбра, но Get по чужому id просто отсутствует
	if ok, err := teachers.Delete(ctx, "T010"); err != nil || !ok {
		t.Fatalf("delete: %v", err)
	}
	assigned, err := assignments.IsAssigned(ctx, "T010", -42)
	if err != nil {
		t.Fatal(err)
	}
	if assigned {
		t.Fatal("assignments must be removed with the teacher")
	}
	got, err = teachers.Get(ctx, "T010")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("deleted teacher must be absent")
	}

	// повторное удаление — not found, не ошибка
	if ok, err := teachers.Delete(ctx, "T010"); err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}

	// отсутствие — не ошибка
	if _, found, err := teachers.FindByTelegramID(ctx, 999999); err != nil || found {
		t.Fatalf("lookup of unknown telegram id: found=%v err=%v", found, err)
	}
}
