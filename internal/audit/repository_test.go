package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE command_log (
			id TEXT PRIMARY KEY,
			robot_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			command TEXT,
			source TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT,
			created_at TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestSQLiteRepository_CreateAndList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	entries := []*Entry{
		{RobotID: "r1", Operation: "find_me", Command: &robot.Command{Name: "findMe"}, Source: "mqtt", Status: StatusAccepted, CreatedAt: base},
		{RobotID: "r1", Operation: "get_local_stats", Source: "api", Status: StatusFailed, Error: "unsupported", CreatedAt: base.Add(time.Minute)},
		{RobotID: "r2", Operation: "start_cleaning", Command: &robot.Command{Name: "startCleaning", Params: map[string]any{"category": 2}}, Source: "api", Status: StatusAccepted, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if e.ID == "" {
			t.Error("Create() did not assign an ID")
		}
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.Total != 3 || len(all.Entries) != 3 {
		t.Fatalf("List() total = %d, len = %d; want 3, 3", all.Total, len(all.Entries))
	}
	if all.Entries[0].Operation != "start_cleaning" {
		t.Errorf("first entry = %q, want most recent start_cleaning", all.Entries[0].Operation)
	}
	if all.Entries[0].Command == nil || all.Entries[0].Command.Params["category"] != float64(2) {
		t.Errorf("command not round-tripped: %+v", all.Entries[0].Command)
	}
	if all.Limit != 50 {
		t.Errorf("Limit = %d, want default 50", all.Limit)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "by robot", filter: Filter{RobotID: "r1"}, want: 2},
		{name: "by status", filter: Filter{Status: StatusFailed}, want: 1},
		{name: "by operation", filter: Filter{Operation: "find_me"}, want: 1},
		{name: "combined", filter: Filter{RobotID: "r2", Status: StatusFailed}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if res.Total != tt.want || len(res.Entries) != tt.want {
				t.Errorf("total = %d, len = %d; want %d", res.Total, len(res.Entries), tt.want)
			}
		})
	}
}

func TestSQLiteRepository_ListPagination(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, &Entry{RobotID: "r1", Operation: "get_state", Status: StatusAccepted, CreatedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	res, err := repo.List(ctx, Filter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Total != 5 || len(res.Entries) != 1 {
		t.Errorf("total = %d, len = %d; want 5, 1", res.Total, len(res.Entries))
	}

	res, err = repo.List(ctx, Filter{Limit: 1000})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Limit != 200 {
		t.Errorf("Limit = %d, want clamped 200", res.Limit)
	}
}
