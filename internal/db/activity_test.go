//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/models"
	"github.com/madraimov/teacher-activity-bot/internal/testutil/testdb"
	"go.uber.org/zap"
)

func TestActivityStore_ConcurrentIncrements(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	activity := db.NewActivityStore(h.DB, time.UTC, zap.NewNop())
	today := activity.Today()

	const k = 50
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			activity.Increment(ctx, today, -42, "T001", models.CategoryText)
		}()
		go func() {
			defer wg.Done()
			activity.Increment(ctx, today, -42, "T002", models.CategoryText)
		}()
	}
	wg.Wait()

	stats, err := activity.AggregateRange(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := stats[-42]["T001"].Text; got != k {
		t.Fatalf("expected %d for T001/text, got %d", k, got)
	}
	if got := stats[-42]["T002"].Text; got != k {
		t.Fatalf("expected %d for T002/text, got %d", k, got)
	}
	// соседние ключи не задеты
	if got := stats[-42]["T001"].Photo; got != 0 {
		t.Fatalf("photo counter must stay zero, got %d", got)
	}
}

func TestActivityStore_TeacherSummaryScenario(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	activity := db.NewActivityStore(h.DB, time.UTC, zap.NewNop())
	today := activity.Today()

	for i := 0; i < 3; i++ {
		activity.Increment(ctx, today, -42, "T001", models.CategoryText)
	}
	activity.Increment(ctx, today, -42, "T001", models.CategoryPhoto)

	sum, err := activity.TeacherSummary(ctx, "T001", 1)
	if err != nil {
		t.Fatal(err)
	}
	c := sum.Groups[-42]
	want := models.CounterSet{Text: 3, Photo: 1}
	if c != want {
		t.Fatalf("expected %+v, got %+v", want, c)
	}
	if sum.Total.Total() != 4 {
		t.Fatalf("expected grand total 4, got %d", sum.Total.Total())
	}
	if sum.Total.Video != 0 || sum.Total.Audio != 0 || sum.Total.Voice != 0 || sum.Total.Document != 0 {
		t.Fatalf("untouched categories must be zero: %+v", sum.Total)
	}
}

func TestActivityStore_WindowSemantics(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	activity := db.NewActivityStore(h.DB, time.UTC, zap.NewNop())
	today := activity.Today()

	activity.Increment(ctx, today, -42, "T001", models.CategoryText)
	activity.Increment(ctx, today.AddDate(0, 0, -2), -42, "T001", models.CategoryText)
	// позавчерашний день вне однодневного и двухдневного окна
	activity.Increment(ctx, today.AddDate(0, 0, -3), -42, "T001", models.CategoryVoice)

	oneDay, err := activity.AggregateRange(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := oneDay[-42]["T001"].Text; got != 1 {
		t.Fatalf("1-day window: expected 1, got %d", got)
	}

	threeDays, err := activity.AggregateRange(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := threeDays[-42]["T001"].Text; got != 2 {
		t.Fatalf("3-day window: expected 2, got %d", got)
	}
	if got := threeDays[-42]["T001"].Voice; got != 0 {
		t.Fatalf("3-day window must exclude day -3, got voice=%d", got)
	}

	fourDays, err := activity.AggregateRange(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := fourDays[-42]["T001"]; got.Text != 2 || got.Voice != 1 {
		t.Fatalf("4-day window: got %+v", got)
	}

	if _, err := activity.AggregateRange(ctx, 0); err == nil {
		t.Fatal("days < 1 must be rejected")
	}
}

func TestActivityStore_UnknownCategoryIsNoop(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	activity := db.NewActivityStore(h.DB, time.UTC, zap.NewNop())

	activity.Increment(ctx, activity.Today(), -42, "T001", models.Category("sticker"))

	stats, err := activity.AggregateRange(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Fatalf("unknown category must not create buckets: %v", stats)
	}
}

func TestActivityStore_HistorySurvivesGroupDelete(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	groups := db.NewGroupStore(h.DB, zap.NewNop())
	activity := db.NewActivityStore(h.DB, time.UTC, zap.NewNop())

	if ok, _, err := groups.Add(ctx, -42, "Physics 8A"); err != nil || !ok {
		t.Fatalf("group add: %v", err)
	}
	activity.Increment(ctx, activity.Today(), -42, "T001", models.CategoryDocument)

	if ok, err := groups.Delete(ctx, -42); err != nil || !ok {
		t.Fatalf("group delete: %v", err)
	}

	stats, err := activity.AggregateRange(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := stats[-42]["T001"].Document; got != 1 {
		t.Fatalf("historical counters must survive deletion, got %d", got)
	}
}
