package main

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/report"
)

type account struct {
	TeacherID string
	Email     string
	Password  string
}

// memoryStore backs the stub with process-local state. It exists so the
// client can be exercised end to end; it is not a product backend.
type memoryStore struct {
	mu         sync.Mutex
	accounts   map[string]account            // email -> account
	classes    map[string]class.Class        // classID -> class
	students   map[string][]class.Student    // classID -> roster
	attendance map[string]map[string][]string // classID -> date -> present IDs
}

func newMemoryStore(accounts ...account) *memoryStore {
	s := &memoryStore{
		accounts:   make(map[string]account, len(accounts)),
		classes:    make(map[string]class.Class),
		students:   make(map[string][]class.Student),
		attendance: make(map[string]map[string][]string),
	}
	for _, acc := range accounts {
		if acc.TeacherID == "" {
			acc.TeacherID = uuid.New().String()
		}
		s.accounts[acc.Email] = acc
	}
	return s
}

func (s *memoryStore) findAccount(email string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	return acc, ok
}

func (s *memoryStore) allClasses() []class.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	classes := make([]class.Class, 0, len(s.classes))
	for _, cls := range s.classes {
		classes = append(classes, cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes
}

func (s *memoryStore) createClass(nc class.NewClass) class.Class {
	cls := class.Class{
		ID:          uuid.New().String(),
		Name:        nc.Name,
		Description: nc.Description,
		TeacherID:   nc.TeacherID,
		Timings:     nc.Timings,
	}
	s.mu.Lock()
	s.classes[cls.ID] = cls
	s.mu.Unlock()
	return cls
}

func (s *memoryStore) deleteClass(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return false
	}
	delete(s.classes, id)
	delete(s.students, id)
	delete(s.attendance, id)
	return true
}

func (s *memoryStore) roster(classID string) ([]class.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return nil, false
	}
	roster := make([]class.Student, len(s.students[classID]))
	copy(roster, s.students[classID])
	class.SortStudents(roster)
	return roster, true
}

func (s *memoryStore) addStudent(classID string, ns class.NewStudent) (class.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return class.Student{}, false
	}
	student := class.Student{
		ID:      uuid.New().String(),
		RollNo:  ns.RollNo,
		Name:    ns.Name,
		ClassID: classID,
	}
	s.students[classID] = append(s.students[classID], student)
	return student, true
}

func (s *memoryStore) saveAttendance(classID, date string, presentIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return false
	}
	days, ok := s.attendance[classID]
	if !ok {
		days = make(map[string][]string)
		s.attendance[classID] = days
	}
	days[date] = presentIDs // last save of the day wins
	return true
}

// analytics derives the rate series from saved attendance, dates ascending.
func (s *memoryStore) analytics(classID string) (report.Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return report.Series{}, false
	}

	total := len(s.students[classID])
	days := s.attendance[classID]
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := report.Series{Dates: dates, Rates: make([]float64, 0, len(dates))}
	for _, date := range dates {
		var rate float64
		if total > 0 {
			rate = float64(len(days[date])) / float64(total) * 100
		}
		series.Rates = append(series.Rates, rate)
	}
	return series, true
}
