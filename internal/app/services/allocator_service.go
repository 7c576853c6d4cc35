package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/db"
)

// mentorAllocationLockID keys the advisory lock that serializes
// concurrent auto-assignment passes.
const mentorAllocationLockID int64 = 803601

// DirectoryStore is the view of mentors and unassigned students the
// allocation pass works against. The production implementation runs the
// queries inside the pass transaction; tests substitute an in-memory store.
type DirectoryStore interface {
	Departments(ctx context.Context) ([]string, error)
	MentorsByDepartment(ctx context.Context, department string) ([]models.Mentor, error)
	UnassignedStudents(ctx context.Context, department string) ([]int64, error)
	CountAssignments(ctx context.Context, mentorID int64) (int, error)
	Assign(ctx context.Context, recordID, mentorID int64) error
	SetMentorCount(ctx context.Context, mentorID int64, count int) error
}

// AllocatorService runs mentor auto-assignment passes
type AllocatorService interface {
	AutoAssign(ctx context.Context) (int, error)
}

type allocatorService struct {
	db     *db.PostgresDB
	logger zerolog.Logger
}

// NewAllocatorService creates a new AllocatorService
func NewAllocatorService(database *db.PostgresDB, logger zerolog.Logger) AllocatorService {
	return &allocatorService{
		db:     database,
		logger: logger,
	}
}

// AutoAssign distributes unassigned students across mentors, one
// department at a time. The whole pass runs in a single transaction:
// any failure rolls back every assignment made so far. An advisory
// transaction lock serializes concurrent passes so two admins clicking
// at once cannot double-assign.
func (s *allocatorService) AutoAssign(ctx context.Context) (int, error) {
	var assigned int

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, mentorAllocationLockID); err != nil {
			return fmt.Errorf("failed to acquire allocation lock: %w", err)
		}

		n, err := runAssignmentPass(ctx, repositories.NewPlacementDirectory(tx))
		if err != nil {
			return err
		}
		assigned = n
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Auto-assignment pass failed")
		return 0, fmt.Errorf("auto-assignment failed: %w", err)
	}

	s.logger.Info().Int("assigned", assigned).Msg("Auto-assignment pass completed")
	return assigned, nil
}

// runAssignmentPass executes one allocation pass over the store and
// returns the number of students assigned.
func runAssignmentPass(ctx context.Context, store DirectoryStore) (int, error) {
	departments, err := store.Departments(ctx)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, department := range departments {
		n, err := assignDepartment(ctx, store, department)
		if err != nil {
			return 0, err
		}
		assigned += n
	}
	return assigned, nil
}

// assignDepartment distributes a department's unassigned students over
// its mentors in creation order. The per-mentor quota is computed once
// from the initial queue length and stays fixed for the whole
// department, even as students are handed out.
func assignDepartment(ctx context.Context, store DirectoryStore, department string) (int, error) {
	mentors, err := store.MentorsByDepartment(ctx, department)
	if err != nil {
		return 0, err
	}
	if len(mentors) == 0 {
		return 0, nil
	}

	queue, err := store.UnassignedStudents(ctx, department)
	if err != nil {
		return 0, err
	}
	if len(queue) == 0 {
		return 0, nil
	}

	perMentor := ceilDiv(len(queue), len(mentors))

	assigned := 0
	idx := 0
	for _, mentor := range mentors {
		if idx >= len(queue) {
			break
		}

		// Load comes from a fresh count, never the cached column
		load, err := store.CountAssignments(ctx, mentor.ID)
		if err != nil {
			return 0, err
		}

		take := mentorQuota(perMentor, mentor.MaxStudents, load)
		for i := 0; i < take && idx < len(queue); i++ {
			if err := store.Assign(ctx, queue[idx], mentor.ID); err != nil {
				return 0, err
			}
			idx++
			assigned++
		}

		fresh, err := store.CountAssignments(ctx, mentor.ID)
		if err != nil {
			return 0, err
		}
		if err := store.SetMentorCount(ctx, mentor.ID, fresh); err != nil {
			return 0, err
		}
	}

	return assigned, nil
}

// mentorQuota returns how many students a mentor may take this pass:
// the fixed per-mentor share, clipped to remaining capacity when the
// mentor has a ceiling. maxStudents <= 0 means unlimited.
func mentorQuota(perMentor, maxStudents, load int) int {
	if maxStudents <= 0 {
		return perMentor
	}

	capacity := maxStudents - load
	if capacity < 0 {
		capacity = 0
	}
	if perMentor < capacity {
		return perMentor
	}
	return capacity
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
