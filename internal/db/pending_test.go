//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/madraimov/teacher-activity-bot/internal/core/validate"
	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/testutil/testdb"
	"go.uber.org/zap"
)

func TestPendingStore_Queue(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	pending := db.NewPendingStore(h.DB)

	if err := pending.Add(ctx, 555, "Aliyev Vali"); err != nil {
		t.Fatal(err)
	}
	if err := pending.Add(ctx, 777, "Karimova Nodira"); err != nil {
		t.Fatal(err)
	}

	// повторная подача перезаписывает имя, записи остаётся одна
	if err := pending.Add(ctx, 555, "Aliyev Vali Valiyevich"); err != nil {
		t.Fatal(err)
	}
	got, err := pending.Get(ctx, 555)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.FullName != "Aliyev Vali Valiyevich" {
		t.Fatalf("unexpected pending entry: %+v", got)
	}

	list, err := pending.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
			t.Fatal("pending list must be ordered by creation time")
		}
	}

	if err := pending.Remove(ctx, 555); err != nil {
		t.Fatal(err)
	}
	got, err = pending.Get(ctx, 555)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("removed entry must be absent")
	}

	// повторное удаление — no-op
	if err := pending.Remove(ctx, 555); err != nil {
		t.Fatal(err)
	}
}

func TestPendingStore_GenerateTeacherID(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	pending := db.NewPendingStore(h.DB)
	teachers := db.NewTeacherStore(h.DB, zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := pending.GenerateTeacherID(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if ok, reason := validate.TeacherID(id); !ok {
			t.Fatalf("generated ID %q is invalid: %s", id, reason)
		}
		if seen[id] {
			continue // сам по себе повтор допустим, пока id не занят
		}
		seen[id] = true
		if ok, reason, err := teachers.Add(ctx, id, "Generated Teacher", int64(2000+i)); err != nil || !ok {
			t.Fatalf("generated ID must be insertable: ok=%v reason=%q err=%v", ok, reason, err)
		}
	}

	// занятые id больше не выдаются
	for i := 0; i < 50; i++ {
		id, err := pending.GenerateTeacherID(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := teachers.Get(ctx, id); got != nil {
			t.Fatalf("generator returned an occupied ID %q", id)
		}
	}
}
