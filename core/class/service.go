package class

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNotFound            = errors.New("class not found")
	ErrRollNoExists        = errors.New("a student with this roll number already exists")
	ErrRollNoNotSequential = errors.New("roll number must be the next sequential number")
)

type (
	Repository interface {
		QueryAllClasses(ctx context.Context) ([]Class, error)
		CreateClass(ctx context.Context, nc NewClass) (Class, error)
		DeleteClass(ctx context.Context, id string) error
		QueryStudents(ctx context.Context, classID string) ([]Student, error)
		// CreateStudent may return a zero Student when the backend omits the
		// created record from its response.
		CreateStudent(ctx context.Context, classID string, ns NewStudent) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}
	return svc.repo.CreateClass(ctx, nc)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}

// Students returns the roster for a class, ordered by roll number.
func (svc *Service) Students(ctx context.Context, classID string) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, classID)
	if err != nil {
		return nil, err
	}
	SortStudents(students)
	return students, nil
}

// AddStudent validates ns against the given roster and creates the student.
// Roll numbers are a strict sequential append: validation fails before any
// network call on a duplicate or a gap. When the backend omits the created
// record, a placeholder ID is synthesized.
func (svc *Service) AddStudent(ctx context.Context, classID string, ns NewStudent, roster []Student) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	if err := checkRollNo(ns.RollNo, roster); err != nil {
		return Student{}, err
	}

	student, err := svc.repo.CreateStudent(ctx, classID, ns)
	if err != nil {
		return Student{}, err
	}
	if student.ID == "" {
		student = Student{
			ID:      uuid.New().String(),
			RollNo:  ns.RollNo,
			Name:    ns.Name,
			ClassID: classID,
		}
	}
	return student, nil
}

func checkRollNo(rollNo int, roster []Student) error {
	for _, s := range roster {
		if s.RollNo == rollNo {
			return core.NewValidationError(ErrRollNoExists, core.FieldError{Field: "rollNo", Error: ErrRollNoExists.Error()})
		}
	}
	if next := NextRollNo(roster); rollNo != next {
		return core.NewValidationError(
			ErrRollNoNotSequential,
			core.FieldError{Field: "rollNo", Error: ErrRollNoNotSequential.Error() + " (" + strconv.Itoa(next) + ")"},
		)
	}
	return nil
}
