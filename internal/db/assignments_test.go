//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/testutil/testdb"
	"go.uber.org/zap"
)

func TestAssignmentStore_ToggleIsItsOwnInverse(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	assignments := db.NewAssignmentStore(h.DB)

	before, err := assignments.IsAssigned(ctx, "T100", -7)
	if err != nil {
		t.Fatal(err)
	}
	if before {
		t.Fatal("fresh pair must not be assigned")
	}

	nowAssigned, msg, err := assignments.Toggle(ctx, "T100", -7)
	if err != nil {
		t.Fatal(err)
	}
	if !nowAssigned || msg == "" {
		t.Fatalf("first toggle must assign, got %v %q", nowAssigned, msg)
	}

	nowAssigned, _, err = assignments.Toggle(ctx, "T100", -7)
	if err != nil {
		t.Fatal(err)
	}
	if nowAssigned {
		t.Fatal("second toggle must remove the edge")
	}

	after, err := assignments.IsAssigned(ctx, "T100", -7)
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Fatal("double toggle must restore the original state")
	}
}

// Конкурентные переключения одной пары сериализуются: итог эквивалентен
// какому-то последовательному порядку, поэтому чётное число переключений
// возвращает исходное (пустое) состояние, а "назначено"/"снято"
// чередуются строго поровну.
func TestAssignmentStore_ConcurrentTogglesSerialize(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	assignments := db.NewAssignmentStore(h.DB)

	const k = 10 // чётное
	results := make(chan bool, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nowAssigned, _, err := assignments.Toggle(ctx, "T500", -90)
			if err != nil {
				t.Error(err)
				return
			}
			results <- nowAssigned
		}()
	}
	wg.Wait()
	close(results)

	gotAssigned := 0
	for nowAssigned := range results {
		if nowAssigned {
			gotAssigned++
		}
	}
	if gotAssigned != k/2 {
		t.Fatalf("toggles must alternate under a serial order: %d of %d reported assigned", gotAssigned, k)
	}

	assigned, err := assignments.IsAssigned(ctx, "T500", -90)
	if err != nil {
		t.Fatal(err)
	}
	if assigned {
		t.Fatal("even number of toggles must leave the edge absent")
	}
}

func TestAssignmentStore_GroupDeleteDropsEdges(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	groups := db.NewGroupStore(h.DB, zap.NewNop())
	assignments := db.NewAssignmentStore(h.DB)

	if ok, _, err := groups.Add(ctx, -55, "History 7B"); err != nil || !ok {
		t.Fatalf("group add: %v", err)
	}
	for _, teacherID := range []string{"T201", "T202", "T203"} {
		if _, _, err := assignments.Toggle(ctx, teacherID, -55); err != nil {
			t.Fatal(err)
		}
	}
	// ребро в другую группу переживает удаление
	if _, _, err := assignments.Toggle(ctx, "T201", -56); err != nil {
		t.Fatal(err)
	}

	if ok, err := groups.Delete(ctx, -55); err != nil || !ok {
		t.Fatalf("group delete: %v", err)
	}

	for _, teacherID := range []string{"T201", "T202", "T203"} {
		assigned, err := assignments.IsAssigned(ctx, teacherID, -55)
		if err != nil {
			t.Fatal(err)
		}
		if assigned {
			t.Fatalf("edge %s→-55 must be gone", teacherID)
		}
	}

	got, err := assignments.GroupsOf(ctx, "T201")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[-56]; !ok || len(got) != 1 {
		t.Fatalf("T201 must keep only -56, got %v", got)
	}

	// запрос по удалённой группе — пустой результат, не ошибка
	if g, err := groups.Get(ctx, -55); err != nil || g != nil {
		t.Fatalf("deleted group lookup: %+v err=%v", g, err)
	}
}

func TestAssignmentStore_RemoveAll(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	assignments := db.NewAssignmentStore(h.DB)

	for _, chatID := range []int64{-71, -72, -73} {
		if _, _, err := assignments.Toggle(ctx, "T401", chatID); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := assignments.Toggle(ctx, "T402", -71); err != nil {
		t.Fatal(err)
	}

	if err := assignments.RemoveAllForTeacher(ctx, "T401"); err != nil {
		t.Fatal(err)
	}
	got, err := assignments.GroupsOf(ctx, "T401")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("T401 must have no edges left, got %v", got)
	}

	if err := assignments.RemoveAllForGroup(ctx, -71); err != nil {
		t.Fatal(err)
	}
	assigned, err := assignments.IsAssigned(ctx, "T402", -71)
	if err != nil {
		t.Fatal(err)
	}
	if assigned {
		t.Fatal("edge T402→-71 must be gone")
	}
}

func TestGroupStore_DeactivateKeepsRowDisabled(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	groups := db.NewGroupStore(h.DB, zap.NewNop())
	assignments := db.NewAssignmentStore(h.DB)

	if ok, _, err := groups.Add(ctx, -60, "Chemistry 9V"); err != nil || !ok {
		t.Fatalf("group add: %v", err)
	}
	if _, _, err := assignments.Toggle(ctx, "T301", -60); err != nil {
		t.Fatal(err)
	}

	if err := groups.Deactivate(ctx, -60); err != nil {
		t.Fatal(err)
	}

	g, err := groups.Get(ctx, -60)
	if err != nil {
		t.Fatal(err)
	}
	if g == nil || g.Enabled {
		t.Fatalf("deactivated group must stay registered but disabled: %+v", g)
	}
	assigned, err := assignments.IsAssigned(ctx, "T301", -60)
	if err != nil {
		t.Fatal(err)
	}
	if assigned {
		t.Fatal("deactivation must drop assignment edges")
	}
}
