package joblog

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/Essateric/chaiiwala-sub001/internal/testutil"
)

// newTestDB returns a migrated database holding stores 5 and 6.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testutil.OpenSQLite(t)
	testutil.SeedStore(t, db, 5, "Stockport Road")
	testutil.SeedStore(t, db, 6, "Ashton")
	return db
}

// seedJob inserts a job with a fixed id.
func seedJob(t *testing.T, db *sql.DB, id, storeID int64, date, clock *string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO job_logs (id, store_id, description, category, flag, created_by,
		  log_date, log_time, attachments, created_at, updated_at)
		VALUES (?, ?, ?, 'equipment', 'normal', 'Seed', ?, ?, '[]', 0, 0)`,
		id, storeID, "job", nullable(date), nullable(clock))
	if err != nil {
		t.Fatalf("seed job %d: %v", id, err)
	}
}

func TestSQLiteRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))
	ctx := testutil.TestContext(t)

	job := &Job{
		StoreID:     5,
		Description: "Fridge leaking",
		Category:    CategoryEquipment,
		Flag:        FlagUrgent,
		CreatedBy:   "Priya",
		LogDate:     testutil.Str("2025-04-10"),
		LogTime:     testutil.Str("09:15"),
		Attachments: []string{"uploads/fridge.jpg"},
	}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected an id to be assigned")
	}

	got, err := repo.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Fridge leaking" || got.Flag != FlagUrgent || got.StoreID != 5 {
		t.Errorf("unexpected job: %+v", got)
	}
	if *got.LogDate != "2025-04-10" || *got.LogTime != "09:15" {
		t.Errorf("slot = %s %s", *got.LogDate, *got.LogTime)
	}
	if len(got.Attachments) != 1 || got.Attachments[0] != "uploads/fridge.jpg" {
		t.Errorf("attachments = %v", got.Attachments)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing job: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteRepo_CreateUnknownStore(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))

	err := repo.Create(testutil.TestContext(t), &Job{
		StoreID: 77, Description: "x", Category: CategoryOther, Flag: FlagNormal,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestSQLiteRepo_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := testutil.TestContext(t)

	seedJob(t, db, 1, 5, testutil.Str("2025-04-11"), testutil.Str("10:00"))
	seedJob(t, db, 2, 5, testutil.Str("2025-04-10"), testutil.Str("09:15"))
	seedJob(t, db, 3, 6, nil, nil)
	seedJob(t, db, 4, 6, testutil.Str("2025-04-10"), nil)
	if _, err := db.Exec(`UPDATE job_logs SET flag='urgent' WHERE id=1`); err != nil {
		t.Fatal(err)
	}

	all, err := repo.List(ctx, ListFilter{AllStores: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := jobIDs(all); !equalIDs(ids, []int64{2, 4, 1, 3}) {
		t.Errorf("order = %v, want [2 4 1 3]", ids)
	}

	store5, _ := repo.List(ctx, ListFilter{StoreID: 5})
	if ids := jobIDs(store5); !equalIDs(ids, []int64{2, 1}) {
		t.Errorf("store 5 = %v", ids)
	}

	urgent, _ := repo.List(ctx, ListFilter{AllStores: true, Flag: FlagUrgent})
	if ids := jobIDs(urgent); !equalIDs(ids, []int64{1}) {
		t.Errorf("urgent = %v", ids)
	}

	pool, _ := repo.List(ctx, ListFilter{AllStores: true, Unscheduled: true})
	if ids := jobIDs(pool); !equalIDs(ids, []int64{4, 3}) {
		t.Errorf("unscheduled = %v, want [4 3]", ids)
	}
}

func TestSQLiteRepo_UpdateScheduleOnlyTouchesSlot(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := testutil.TestContext(t)
	seedJob(t, db, 42, 5, testutil.Str("2025-04-10"), testutil.Str("09:15"))

	before, _ := repo.GetByID(ctx, 42)
	if err := repo.UpdateSchedule(ctx, 42, NewSlot("2025-04-12", "14:00")); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := repo.GetByID(ctx, 42)

	if *after.LogDate != "2025-04-12" || *after.LogTime != "14:00" {
		t.Errorf("slot = %s %s", *after.LogDate, *after.LogTime)
	}
	if after.Description != before.Description || after.Category != before.Category ||
		after.Flag != before.Flag || after.StoreID != before.StoreID || after.CreatedBy != before.CreatedBy {
		t.Errorf("non-slot fields changed: before %+v after %+v", before, after)
	}

	if err := repo.UpdateSchedule(ctx, 42, Slot{}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, _ := repo.GetByID(ctx, 42)
	if cleared.IsScheduled() || cleared.LogDate != nil || cleared.LogTime != nil {
		t.Errorf("expected cleared slot, got %+v", cleared.Slot())
	}

	if err := repo.UpdateSchedule(ctx, 999, Slot{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing job: got %v", err)
	}
}

func TestSQLiteRepo_Comments(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := testutil.TestContext(t)
	seedJob(t, db, 42, 5, nil, nil)

	first := &Comment{JobID: 42, AuthorID: 1, AuthorName: "Sam", Body: "on it @Ali", MentionedUsers: []int64{3}}
	second := &Comment{JobID: 42, AuthorID: 2, AuthorName: "Ali", Body: "thanks"}
	for _, c := range []*Comment{first, second} {
		if err := repo.AddComment(ctx, c); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}

	got, err := repo.ListComments(ctx, 42)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(got) != 2 || got[0].Body != "on it @Ali" || got[1].Body != "thanks" {
		t.Fatalf("unexpected comments: %+v", got)
	}
	if len(got[0].MentionedUsers) != 1 || got[0].MentionedUsers[0] != 3 {
		t.Errorf("mentions = %v", got[0].MentionedUsers)
	}
	if got[1].MentionedUsers == nil {
		t.Error("mentions should decode to an empty slice")
	}

	if err := repo.AddComment(ctx, &Comment{JobID: 999, Body: "x"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("comment on missing job: got %v", err)
	}
}

func jobIDs(jobs []*Job) []int64 {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
