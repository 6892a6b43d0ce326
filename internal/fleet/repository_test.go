package fleet

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// setupTestDB creates an in-memory SQLite database with the robots table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE robots (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			serial TEXT NOT NULL UNIQUE,
			secret TEXT NOT NULL DEFAULT '',
			model TEXT,
			firmware TEXT,
			capabilities TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
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

func testRobot(id, name, serial string) *Robot {
	return &Robot{
		ID:     id,
		Name:   name,
		Serial: serial,
		Secret: "secret-" + id,
		Model:  "BotVacD7Connected",
		Capabilities: capability.Declaration{
			capability.CapHouseCleaning: capability.LevelBasic2,
			capability.CapSpotCleaning:  capability.LevelBasic2,
			capability.CapFindMe:        capability.LevelBasic1,
		},
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	r := testRobot("r1", "Downstairs", "SN-001")
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}

	got, err := repo.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Downstairs" || got.Serial != "SN-001" || got.Secret != "secret-r1" {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.Firmware != "" {
		t.Errorf("Firmware = %q, want empty", got.Firmware)
	}
	if got.Capabilities[capability.CapHouseCleaning] != capability.LevelBasic2 {
		t.Errorf("Capabilities = %v", got.Capabilities)
	}

	bySerial, err := repo.GetBySerial(ctx, "SN-001")
	if err != nil {
		t.Fatalf("GetBySerial() error = %v", err)
	}
	if bySerial.ID != "r1" {
		t.Errorf("GetBySerial().ID = %q, want r1", bySerial.ID)
	}
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrRobotNotFound) {
		t.Errorf("GetByID() error = %v, want ErrRobotNotFound", err)
	}
	if _, err := repo.GetBySerial(ctx, "missing"); !errors.Is(err, ErrRobotNotFound) {
		t.Errorf("GetBySerial() error = %v, want ErrRobotNotFound", err)
	}
	if err := repo.Update(ctx, testRobot("missing", "x", "y")); !errors.Is(err, ErrRobotNotFound) {
		t.Errorf("Update() error = %v, want ErrRobotNotFound", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrRobotNotFound) {
		t.Errorf("Delete() error = %v, want ErrRobotNotFound", err)
	}
}

func TestSQLiteRepository_Duplicates(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testRobot("r1", "A", "SN-001")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, testRobot("r1", "B", "SN-002")); !errors.Is(err, ErrRobotExists) {
		t.Errorf("duplicate id error = %v, want ErrRobotExists", err)
	}
	if err := repo.Create(ctx, testRobot("r2", "B", "SN-001")); !errors.Is(err, ErrRobotExists) {
		t.Errorf("duplicate serial error = %v, want ErrRobotExists", err)
	}
}

func TestSQLiteRepository_UpdateDeleteList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	for _, r := range []*Robot{
		testRobot("r1", "Upstairs", "SN-001"),
		testRobot("r2", "Downstairs", "SN-002"),
	} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	upd := testRobot("r1", "Attic", "SN-001")
	upd.Capabilities = nil
	upd.Firmware = "4.5.3"
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Attic" || got.Firmware != "4.5.3" {
		t.Errorf("after update = %+v", got)
	}
	if got.Capabilities == nil || len(got.Capabilities) != 0 {
		t.Errorf("Capabilities = %v, want empty declaration", got.Capabilities)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "Attic" || list[1].Name != "Downstairs" {
		t.Errorf("List() not ordered by name: %+v", list)
	}

	if err := repo.Delete(ctx, "r2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, _ = repo.List(ctx)
	if len(list) != 1 {
		t.Errorf("len(List()) = %d after delete, want 1", len(list))
	}
}
