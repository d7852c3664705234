package assessments

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestClampListPage(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, defaultListLimit, 0},
		{-3, -1, defaultListLimit, 0},
		{500, 7, maxListLimit, 7},
		{10, 3, 10, 3},
	}
	for _, tc := range cases {
		limit, offset := clampListPage(tc.limit, tc.offset)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Fatalf("clampListPage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestMemoryRepoListPagination(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		run := AssessmentRun{
			ID:        fmt.Sprintf("run-%02d", i),
			UserID:    "user-1",
			Status:    StatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(context.Background(), run); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// limit <= 0 falls back to the default page size, matching the
	// Postgres repo.
	runs, err := repo.ListByUser(context.Background(), "user-1", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != defaultListLimit {
		t.Fatalf("default page = %d runs, want %d", len(runs), defaultListLimit)
	}
	if runs[0].ID != "run-24" {
		t.Fatalf("expected newest first, got %s", runs[0].ID)
	}

	runs, err = repo.ListByUser(context.Background(), "user-1", 10, 20)
	if err != nil {
		t.Fatalf("list tail: %v", err)
	}
	if len(runs) != 5 {
		t.Fatalf("tail page = %d runs, want 5", len(runs))
	}
	if runs[len(runs)-1].ID != "run-00" {
		t.Fatalf("expected oldest run last, got %s", runs[len(runs)-1].ID)
	}

	runs, err = repo.ListByUser(context.Background(), "user-1", 500, -5)
	if err != nil {
		t.Fatalf("list clamped: %v", err)
	}
	if len(runs) != 25 {
		t.Fatalf("oversized limit = %d runs, want all 25", len(runs))
	}
}
