package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
)

// fakeDirectory is an in-memory DirectoryStore for allocation tests
type fakeDirectory struct {
	mentors     map[string][]models.Mentor // department -> mentors
	unassigned  map[string][]int64         // department -> record IDs
	assignments map[int64]int64            // record ID -> mentor ID
	counts      map[int64]int              // mentor ID -> written-back count
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		mentors:     make(map[string][]models.Mentor),
		unassigned:  make(map[string][]int64),
		assignments: make(map[int64]int64),
		counts:      make(map[int64]int),
	}
}

func (f *fakeDirectory) Departments(context.Context) ([]string, error) {
	departments := make([]string, 0, len(f.mentors))
	for department := range f.mentors {
		departments = append(departments, department)
	}
	return departments, nil
}

func (f *fakeDirectory) MentorsByDepartment(_ context.Context, department string) ([]models.Mentor, error) {
	return f.mentors[department], nil
}

func (f *fakeDirectory) UnassignedStudents(_ context.Context, department string) ([]int64, error) {
	pending := make([]int64, 0)
	for _, recordID := range f.unassigned[department] {
		if _, taken := f.assignments[recordID]; !taken {
			pending = append(pending, recordID)
		}
	}
	return pending, nil
}

func (f *fakeDirectory) CountAssignments(_ context.Context, mentorID int64) (int, error) {
	count := 0
	for _, assignee := range f.assignments {
		if assignee == mentorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeDirectory) Assign(_ context.Context, recordID, mentorID int64) error {
	f.assignments[recordID] = mentorID
	return nil
}

func (f *fakeDirectory) SetMentorCount(_ context.Context, mentorID int64, count int) error {
	f.counts[mentorID] = count
	return nil
}

func (f *fakeDirectory) mentorLoad(mentorID int64) int {
	count, _ := f.CountAssignments(context.Background(), mentorID)
	return count
}

func TestRunAssignmentPass_CappedMentorOverflowsToUnlimited(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["CS"] = []models.Mentor{
		{ID: 1, MaxStudents: 2},
		{ID: 2, MaxStudents: 0}, // unlimited
	}
	store.unassigned["CS"] = []int64{101, 102, 103, 104, 105}

	assigned, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 5, assigned)

	// per-mentor share is ceil(5/2)=3; mentor 1 is clipped at capacity 2
	assert.Equal(t, 2, store.mentorLoad(1))
	assert.Equal(t, 3, store.mentorLoad(2))

	assert.Equal(t, int64(1), store.assignments[101])
	assert.Equal(t, int64(1), store.assignments[102])
	assert.Equal(t, int64(2), store.assignments[103])
	assert.Equal(t, int64(2), store.assignments[104])
	assert.Equal(t, int64(2), store.assignments[105])
}

func TestRunAssignmentPass_WritesBackFreshCounts(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["EE"] = []models.Mentor{{ID: 7, MaxStudents: 0}}
	store.unassigned["EE"] = []int64{201, 202}

	_, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 2, store.counts[7])
}

func TestRunAssignmentPass_RespectsExistingLoad(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["CS"] = []models.Mentor{{ID: 1, MaxStudents: 3}}
	store.unassigned["CS"] = []int64{101, 102, 103}
	// Two students assigned in an earlier pass
	store.assignments[900] = 1
	store.assignments[901] = 1

	assigned, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 1, assigned)
	assert.Equal(t, 3, store.mentorLoad(1))
}

func TestRunAssignmentPass_SecondPassIsNoOp(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["CS"] = []models.Mentor{{ID: 1}, {ID: 2}}
	store.unassigned["CS"] = []int64{101, 102, 103}

	first, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 3, first)

	second, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, second)
}

func TestRunAssignmentPass_SkipsDepartmentWithoutMentors(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["CS"] = []models.Mentor{{ID: 1}}
	store.mentors["ME"] = nil
	store.unassigned["CS"] = []int64{101}
	store.unassigned["ME"] = []int64{301, 302}

	assigned, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 1, assigned)
	_, taken := store.assignments[301]
	assert.False(t, taken)
}

func TestRunAssignmentPass_EmptyQueueIsNoOp(t *testing.T) {
	store := newFakeDirectory()
	store.mentors["CS"] = []models.Mentor{{ID: 1, MaxStudents: 5}}

	assigned, err := runAssignmentPass(context.Background(), store)
	require.NoError(t, err)

	assert.Zero(t, assigned)
	assert.Empty(t, store.counts)
}

func TestMentorQuota(t *testing.T) {
	tests := []struct {
		name        string
		perMentor   int
		maxStudents int
		load        int
		want        int
	}{
		{"unlimited takes full share", 3, 0, 10, 3},
		{"capacity clips the share", 3, 2, 0, 2},
		{"share below capacity", 2, 10, 3, 2},
		{"already at max", 3, 4, 4, 0},
		{"over max never goes negative", 3, 4, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mentorQuota(tt.perMentor, tt.maxStudents, tt.load))
		})
	}
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 3, ceilDiv(5, 2))
	assert.Equal(t, 1, ceilDiv(1, 3))
	assert.Equal(t, 2, ceilDiv(6, 3))
}
