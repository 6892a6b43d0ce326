package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// Repository defines the interface for robot persistence.
type Repository interface {
	// GetByID retrieves a robot by ID.
	// Returns ErrRobotNotFound if the robot does not exist.
	GetByID(ctx context.Context, id string) (*Robot, error)

	// GetBySerial retrieves a robot by its Nucleo serial.
	// Returns ErrRobotNotFound if the robot does not exist.
	GetBySerial(ctx context.Context, serial string) (*Robot, error)

	// List retrieves all robots ordered by name.
	List(ctx context.Context) ([]Robot, error)

	// Create inserts a new robot.
	// Returns ErrRobotExists if the ID or serial is taken.
	Create(ctx context.Context, robot *Robot) error

	// Update modifies an existing robot.
	// Returns ErrRobotNotFound if the robot does not exist.
	Update(ctx context.Context, robot *Robot) error

	// Delete removes a robot by ID.
	// Returns ErrRobotNotFound if the robot does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectRobots = `
	SELECT id, name, serial, secret, model, firmware, capabilities, created_at, updated_at
	FROM robots`

// GetByID retrieves a robot by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Robot, error) {
	row := r.db.QueryRowContext(ctx, selectRobots+" WHERE id = ?", id)
	robot, err := scanRobot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRobotNotFound
		}
		return nil, fmt.Errorf("querying robot by id: %w", err)
	}
	return robot, nil
}

// GetBySerial retrieves a robot by serial.
func (r *SQLiteRepository) GetBySerial(ctx context.Context, serial string) (*Robot, error) {
	row := r.db.QueryRowContext(ctx, selectRobots+" WHERE serial = ?", serial)
	robot, err := scanRobot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRobotNotFound
		}
		return nil, fmt.Errorf("querying robot by serial: %w", err)
	}
	return robot, nil
}

// List retrieves all robots ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Robot, error) {
	rows, err := r.db.QueryContext(ctx, selectRobots+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("querying robots: %w", err)
	}
	defer rows.Close()

	var robots []Robot
	for rows.Next() {
		robot, err := scanRobot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning robot: %w", err)
		}
		robots = append(robots, *robot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating robots: %w", err)
	}
	return robots, nil
}

// Create inserts a new robot.
func (r *SQLiteRepository) Create(ctx context.Context, robot *Robot) error {
	capsJSON, err := marshalCapabilities(robot.Capabilities)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if robot.CreatedAt.IsZero() {
		robot.CreatedAt = now
	}
	robot.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO robots (id, name, serial, secret, model, firmware, capabilities, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		robot.ID,
		robot.Name,
		robot.Serial,
		robot.Secret,
		nullableString(robot.Model),
		nullableString(robot.Firmware),
		capsJSON,
		robot.CreatedAt.Format(time.RFC3339),
		robot.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrRobotExists
		}
		return fmt.Errorf("inserting robot: %w", err)
	}
	return nil
}

// Update modifies an existing robot.
func (r *SQLiteRepository) Update(ctx context.Context, robot *Robot) error {
	capsJSON, err := marshalCapabilities(robot.Capabilities)
	if err != nil {
		return err
	}

	robot.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE robots
		SET name = ?, serial = ?, secret = ?, model = ?, firmware = ?, capabilities = ?, updated_at = ?
		WHERE id = ?`,
		robot.Name,
		robot.Serial,
		robot.Secret,
		nullableString(robot.Model),
		nullableString(robot.Firmware),
		capsJSON,
		robot.UpdatedAt.Format(time.RFC3339),
		robot.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrRobotExists
		}
		return fmt.Errorf("updating robot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRobotNotFound
	}
	return nil
}

// Delete removes a robot by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM robots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting robot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRobotNotFound
	}
	return nil
}

// rowScanner is implemented by both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRobot(scanner rowScanner) (*Robot, error) {
	var r Robot
	var model, firmware sql.NullString
	var capsJSON, createdAt, updatedAt string

	if err := scanner.Scan(&r.ID, &r.Name, &r.Serial, &r.Secret, &model, &firmware,
		&capsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.Model = model.String
	r.Firmware = firmware.String

	if err := json.Unmarshal([]byte(capsJSON), &r.Capabilities); err != nil {
		return nil, fmt.Errorf("unmarshalling capabilities: %w", err)
	}

	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &r, nil
}

func marshalCapabilities(d capability.Declaration) (string, error) {
	if d == nil {
		d = capability.Declaration{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshalling capabilities: %w", err)
	}
	return string(data), nil
}

// nullableString maps an empty string to NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
