package service

import (
	"context"
	"sync"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

type stubStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr map[string]error
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]string), setErr: make(map[string]error)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type stubNavigator struct {
	routes []string
	onNav  func(route string)
}

func (n *stubNavigator) Navigate(_ context.Context, route string) {
	n.routes = append(n.routes, route)
	if n.onNav != nil {
		n.onNav(route)
	}
}

func (n *stubNavigator) last() string {
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

type stubIssuer struct {
	obtainFn func(ctx context.Context, username, password string) (*ports.TokenGrant, error)
	revoked  []string
	revokeFn func(ctx context.Context, refresh string) error
}

func (i *stubIssuer) ObtainToken(ctx context.Context, username, password string) (*ports.TokenGrant, error) {
	return i.obtainFn(ctx, username, password)
}

func (i *stubIssuer) RevokeRefresh(ctx context.Context, refresh string) error {
	i.revoked = append(i.revoked, refresh)
	if i.revokeFn != nil {
		return i.revokeFn(ctx, refresh)
	}
	return nil
}

type stubUsers struct {
	listFn     func(ctx context.Context) ([]domain.User, error)
	byRoleFn   func(ctx context.Context, role string) ([]domain.User, error)
	inClassFn  func(ctx context.Context, classID int64) ([]domain.User, error)
	childrenFn func(ctx context.Context) ([]domain.User, error)
}

func (s *stubUsers) List(ctx context.Context) ([]domain.User, error) { return s.listFn(ctx) }
func (s *stubUsers) ByRole(ctx context.Context, role string) ([]domain.User, error) {
	return s.byRoleFn(ctx, role)
}
func (s *stubUsers) StudentsInClass(ctx context.Context, classID int64) ([]domain.User, error) {
	return s.inClassFn(ctx, classID)
}
func (s *stubUsers) MyChildren(ctx context.Context) ([]domain.User, error) { return s.childrenFn(ctx) }

type stubClasses struct {
	listFn func(ctx context.Context) ([]domain.Classe, error)
	mineFn func(ctx context.Context) ([]domain.Classe, error)
}

func (s *stubClasses) List(ctx context.Context) ([]domain.Classe, error) { return s.listFn(ctx) }
func (s *stubClasses) Mine(ctx context.Context) ([]domain.Classe, error) { return s.mineFn(ctx) }

type stubSubjects struct {
	listFn    func(ctx context.Context) ([]domain.Subject, error)
	byClassFn func(ctx context.Context, classID int64) ([]domain.Subject, error)
	mineFn    func(ctx context.Context) ([]domain.Subject, error)
}

func (s *stubSubjects) Mine(ctx context.Context) ([]domain.Subject, error) { return s.mineFn(ctx) }

func (s *stubSubjects) List(ctx context.Context) ([]domain.Subject, error) { return s.listFn(ctx) }
func (s *stubSubjects) ByClass(ctx context.Context, classID int64) ([]domain.Subject, error) {
	return s.byClassFn(ctx, classID)
}

type stubAssignments struct {
	getFn       func(ctx context.Context, id int64) (*domain.Assignment, error)
	bySubjectFn func(ctx context.Context, subjectID int64) ([]domain.Assignment, error)
}

func (s *stubAssignments) Get(ctx context.Context, id int64) (*domain.Assignment, error) {
	return s.getFn(ctx, id)
}
func (s *stubAssignments) BySubject(ctx context.Context, subjectID int64) ([]domain.Assignment, error) {
	return s.bySubjectFn(ctx, subjectID)
}

type stubGrades struct {
	byAssignmentFn func(ctx context.Context, assignmentID int64) ([]domain.Grade, error)
	reportFn       func(ctx context.Context, studentID int64) (*domain.StudentReport, error)
	createFn       func(ctx context.Context, g domain.Grade) (*domain.Grade, error)
}

func (s *stubGrades) ByAssignment(ctx context.Context, assignmentID int64) ([]domain.Grade, error) {
	return s.byAssignmentFn(ctx, assignmentID)
}
func (s *stubGrades) StudentReport(ctx context.Context, studentID int64) (*domain.StudentReport, error) {
	return s.reportFn(ctx, studentID)
}
func (s *stubGrades) Create(ctx context.Context, g domain.Grade) (*domain.Grade, error) {
	return s.createFn(ctx, g)
}

type stubAttendance struct {
	markFn    func(ctx context.Context, a domain.Attendance) (*domain.Attendance, error)
	mineFn    func(ctx context.Context) ([]domain.Attendance, error)
	historyFn func(ctx context.Context, f domain.AttendanceFilter) ([]domain.Attendance, error)
	statsFn   func(ctx context.Context) ([]domain.ClassAttendance, error)
}

func (s *stubAttendance) Mark(ctx context.Context, a domain.Attendance) (*domain.Attendance, error) {
	return s.markFn(ctx, a)
}
func (s *stubAttendance) Mine(ctx context.Context) ([]domain.Attendance, error) { return s.mineFn(ctx) }
func (s *stubAttendance) History(ctx context.Context, f domain.AttendanceFilter) ([]domain.Attendance, error) {
	return s.historyFn(ctx, f)
}
func (s *stubAttendance) ClassStats(ctx context.Context) ([]domain.ClassAttendance, error) {
	return s.statsFn(ctx)
}
