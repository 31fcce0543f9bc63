package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrBusy       = errors.New("another roster operation is in progress")
	ErrNoStudents = errors.New("no students to mark")
)

// Repository persists a day's attendance for one class.
type Repository interface {
	// SaveAttendance records the students present on date (ISO calendar
	// date, local clock).
	SaveAttendance(ctx context.Context, classID, date string, presentIDs []string) error
}

// Sheet holds the working roster of one class and the attendance marks being
// edited. Marks are ephemeral: they are reset by every Load and only leave
// the process through Commit. Operations against the same class are
// serialized; an overlapping call is rejected with ErrBusy rather than left
// to race on the marks map.
type Sheet struct {
	classID string
	svc     *class.Service
	repo    Repository

	mu       sync.Mutex
	busy     bool
	students []class.Student
	marks    map[string]bool // studentID -> present
}

func NewSheet(classID string, svc *class.Service, repo Repository) *Sheet {
	return &Sheet{
		classID: classID,
		svc:     svc,
		repo:    repo,
		marks:   make(map[string]bool),
	}
}

func (s *Sheet) ClassID() string { return s.classID }

// Load fetches and replaces the student list, resetting every mark to
// absent. A result arriving after ctx is canceled is discarded: no state
// mutation against a no-longer-active view.
func (s *Sheet) Load(ctx context.Context) ([]class.Student, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	students, err := s.svc.Students(ctx, s.classID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.students = students
	s.marks = make(map[string]bool, len(students))
	for _, st := range students {
		s.marks[st.ID] = false // default: absent until deliberately marked
	}
	s.mu.Unlock()
	return s.Students(), nil
}

// Toggle flips one student's mark; local state only.
func (s *Sheet) Toggle(studentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	present, ok := s.marks[studentID]
	if !ok {
		return false
	}
	s.marks[studentID] = !present
	return true
}

// ToggleByRollNo flips the mark of the student with the given roll number.
func (s *Sheet) ToggleByRollNo(rollNo int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.RollNo == rollNo {
			s.marks[st.ID] = !s.marks[st.ID]
			return true
		}
	}
	return false
}

// AddStudent validates and creates a student, appends them to the roster and
// marks them present. On failure the sheet is unchanged.
func (s *Sheet) AddStudent(ctx context.Context, ns class.NewStudent) (class.Student, error) {
	if err := s.begin(); err != nil {
		return class.Student{}, err
	}
	defer s.end()

	s.mu.Lock()
	roster := make([]class.Student, len(s.students))
	copy(roster, s.students)
	s.mu.Unlock()

	student, err := s.svc.AddStudent(ctx, s.classID, ns, roster)
	if err != nil {
		return class.Student{}, err
	}
	if err := ctx.Err(); err != nil {
		return class.Student{}, err
	}

	s.mu.Lock()
	s.students = append(s.students, student)
	class.SortStudents(s.students)
	s.marks[student.ID] = true
	s.mu.Unlock()
	return student, nil
}

// Commit sends today's date and the students currently marked present.
// Marks are left untouched on success (they remain visible as "last saved")
// and on failure alike.
func (s *Sheet) Commit(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	if len(s.students) == 0 {
		s.mu.Unlock()
		return ErrNoStudents
	}
	presentIDs := make([]string, 0, len(s.students))
	for _, st := range s.students { // roster order, not map order
		if s.marks[st.ID] {
			presentIDs = append(presentIDs, st.ID)
		}
	}
	s.mu.Unlock()

	date := nowFunc().Format("2006-01-02")
	return s.repo.SaveAttendance(ctx, s.classID, date, presentIDs)
}

// Students returns a copy of the roster, ordered by roll number.
func (s *Sheet) Students() []class.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	students := make([]class.Student, len(s.students))
	copy(students, s.students)
	return students
}

// Marks returns a copy of the current marks.
func (s *Sheet) Marks() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	marks := make(map[string]bool, len(s.marks))
	for id, present := range s.marks {
		marks[id] = present
	}
	return marks
}

func (s *Sheet) PresentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentCount()
}

func (s *Sheet) AbsentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students) - s.presentCount()
}

// Rate is the attendance rate percent, 1 decimal; 0 when the roster is empty.
func (s *Sheet) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.students) == 0 {
		return 0
	}
	return core.Round1(float64(s.presentCount()) / float64(len(s.students)) * 100)
}

func (s *Sheet) presentCount() int {
	var n int
	for _, present := range s.marks {
		if present {
			n++
		}
	}
	return n
}

func (s *Sheet) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Sheet) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
