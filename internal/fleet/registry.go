package fleet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/gray-logic-botvac/internal/nucleo"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides robot management with caching and thread safety.
//
// The cache is populated on startup via RefreshCache() and kept in sync by
// the CRUD methods. Robots handed out are deep copies.
//
// All public methods are thread-safe.
type Registry struct {
	repo     Repository
	cache    map[string]*Robot // by ID
	bySerial map[string]string // serial -> ID
	loaded   bool
	cacheMu  sync.RWMutex
	logger   Logger
}

// NewRegistry creates a new robot registry backed by repo.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:     repo,
		cache:    make(map[string]*Robot),
		bySerial: make(map[string]string),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all robots from the repository.
func (r *Registry) RefreshCache(ctx context.Context) error {
	robots, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading robots: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Robot, len(robots))
	r.bySerial = make(map[string]string, len(robots))
	for i := range robots {
		r.storeLocked(robots[i].DeepCopy())
	}
	r.loaded = true

	r.logger.Info("robot cache refreshed", "count", len(robots))
	return nil
}

// GetRobot retrieves a robot by ID.
func (r *Registry) GetRobot(ctx context.Context, id string) (*Robot, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	robot, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(robot)
	return robot, nil
}

// GetRobotBySerial retrieves a robot by its Nucleo serial.
func (r *Registry) GetRobotBySerial(ctx context.Context, serial string) (*Robot, error) {
	r.cacheMu.RLock()
	id, ok := r.bySerial[serial]
	var cached *Robot
	if ok {
		cached = r.cache[id]
	}
	r.cacheMu.RUnlock()
	if cached != nil {
		return cached.DeepCopy(), nil
	}

	robot, err := r.repo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	r.store(robot)
	return robot, nil
}

// ListRobots returns all robots sorted by name.
func (r *Registry) ListRobots(ctx context.Context) ([]Robot, error) {
	r.cacheMu.RLock()
	if !r.loaded {
		r.cacheMu.RUnlock()
		return r.repo.List(ctx)
	}
	robots := make([]Robot, 0, len(r.cache))
	for _, robot := range r.cache {
		robots = append(robots, *robot.DeepCopy())
	}
	r.cacheMu.RUnlock()

	sort.Slice(robots, func(i, j int) bool {
		if robots[i].Name != robots[j].Name {
			return robots[i].Name < robots[j].Name
		}
		return robots[i].ID < robots[j].ID
	})
	return robots, nil
}

// CreateRobot validates and persists a new robot, generating an ID if needed.
// Capability pairs outside the validity table are logged, not rejected.
func (r *Registry) CreateRobot(ctx context.Context, robot *Robot) error {
	if robot == nil {
		return ErrInvalidRobot
	}
	if robot.ID == "" {
		robot.ID = GenerateID()
	}
	if err := ValidateRobot(robot); err != nil {
		return err
	}
	r.warnUnknown(robot)

	if err := r.repo.Create(ctx, robot); err != nil {
		return err
	}
	r.store(robot)

	r.logger.Info("robot created", "id", robot.ID, "name", robot.Name, "serial", robot.Serial)
	return nil
}

// UpdateRobot validates and persists changes to an existing robot.
// An empty Secret keeps the stored secret.
func (r *Registry) UpdateRobot(ctx context.Context, robot *Robot) error {
	if robot == nil {
		return ErrInvalidRobot
	}
	existing, err := r.GetRobot(ctx, robot.ID)
	if err != nil {
		return err
	}
	if robot.Secret == "" {
		robot.Secret = existing.Secret
	}
	robot.CreatedAt = existing.CreatedAt

	if err := ValidateRobot(robot); err != nil {
		return err
	}
	r.warnUnknown(robot)

	if err := r.repo.Update(ctx, robot); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.bySerial, existing.Serial)
	r.storeLocked(robot.DeepCopy())
	r.cacheMu.Unlock()

	r.logger.Info("robot updated", "id", robot.ID, "name", robot.Name)
	return nil
}

// DeleteRobot removes a robot.
func (r *Registry) DeleteRobot(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	if cached, ok := r.cache[id]; ok {
		delete(r.bySerial, cached.Serial)
		delete(r.cache, id)
	}
	r.cacheMu.Unlock()

	r.logger.Info("robot deleted", "id", id)
	return nil
}

// SeedRobot creates robot unless one with the same serial exists.
// It reports whether the robot was created.
func (r *Registry) SeedRobot(ctx context.Context, robot *Robot) (bool, error) {
	if robot == nil {
		return false, ErrInvalidRobot
	}
	_, err := r.GetRobotBySerial(ctx, robot.Serial)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrRobotNotFound) {
		return false, err
	}
	if err := r.CreateRobot(ctx, robot); err != nil {
		return false, err
	}
	return true, nil
}

// RobotCount returns the number of cached robots.
func (r *Registry) RobotCount() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// Secret implements nucleo.SecretStore.
func (r *Registry) Secret(ctx context.Context, serial string) (string, error) {
	robot, err := r.GetRobotBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, ErrRobotNotFound) {
			return "", fmt.Errorf("%w: %s", nucleo.ErrNoSecret, serial)
		}
		return "", err
	}
	if robot.Secret == "" {
		return "", fmt.Errorf("%w: %s", nucleo.ErrNoSecret, serial)
	}
	return robot.Secret, nil
}

func (r *Registry) warnUnknown(robot *Robot) {
	if unknown := UnknownCapabilities(robot); len(unknown) > 0 {
		r.logger.Warn("robot declares unknown capability levels",
			"id", robot.ID,
			"serial", robot.Serial,
			"pairs", fmt.Sprint(unknown),
		)
	}
}

// store caches a deep copy of robot.
func (r *Registry) store(robot *Robot) {
	r.cacheMu.Lock()
	r.storeLocked(robot.DeepCopy())
	r.cacheMu.Unlock()
}

func (r *Registry) storeLocked(robot *Robot) {
	r.cache[robot.ID] = robot
	r.bySerial[robot.Serial] = robot.ID
}
