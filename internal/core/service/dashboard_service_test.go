package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func catalogBackends() Backends {
	return Backends{
		Subjects: &stubSubjects{listFn: func(context.Context) ([]domain.Subject, error) {
			return []domain.Subject{
				{ID: 1, Name: "Maths", Classe: 10, Professor: ptr[int64](100)},
				{ID: 2, Name: "Histoire", Classe: 99},
				{ID: 3, Name: "Physique", Classe: 10, Professor: ptr[int64](404)},
			}, nil
		}},
		Classes: &stubClasses{listFn: func(context.Context) ([]domain.Classe, error) {
			return []domain.Classe{{ID: 10, Name: "6e A"}}, nil
		}},
		Users: &stubUsers{byRoleFn: func(_ context.Context, role string) ([]domain.User, error) {
			if role != domain.RoleProfessor {
				return nil, errors.New("unexpected role")
			}
			return []domain.User{{ID: 100, Username: "mdupont", Role: role}}, nil
		}},
	}
}

func TestDashboardService_SubjectCatalogFallbacks(t *testing.T) {
	svc := NewDashboardService(catalogBackends())

	views, err := svc.SubjectCatalog(context.Background())
	if err != nil {
		t.Fatalf("SubjectCatalog returned error: %v", err)
	}
	want := []struct{ classe, professor string }{
		{"6e A", "mdupont"},
		{UnknownClassName, UnassignedProfessor},
		{"6e A", UnassignedProfessor},
	}
	if len(views) != len(want) {
		t.Fatalf("expected %d views, got %d", len(want), len(views))
	}
	for i, w := range want {
		if views[i].ClasseName != w.classe || views[i].ProfessorName != w.professor {
			t.Fatalf("view %d: got %q/%q, want %q/%q", i, views[i].ClasseName, views[i].ProfessorName, w.classe, w.professor)
		}
	}
}

func TestDashboardService_JoinFailsAsAWhole(t *testing.T) {
	b := catalogBackends()
	boom := errors.New("classes unavailable")
	b.Classes = &stubClasses{listFn: func(context.Context) ([]domain.Classe, error) { return nil, boom }}
	svc := NewDashboardService(b)

	views, err := svc.SubjectCatalog(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected classes error, got %v", err)
	}
	if views != nil {
		t.Fatalf("expected no partial data, got %+v", views)
	}
}

func TestDashboardService_DropsResultsWhenCallerGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := catalogBackends()
	b.Classes = &stubClasses{listFn: func(context.Context) ([]domain.Classe, error) {
		cancel()
		return []domain.Classe{{ID: 10, Name: "6e A"}}, nil
	}}
	svc := NewDashboardService(b)

	views, err := svc.SubjectCatalog(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if views != nil {
		t.Fatalf("expected results to be dropped, got %+v", views)
	}
}

func TestDashboardService_AdminOverview(t *testing.T) {
	svc := NewDashboardService(Backends{
		Users: &stubUsers{listFn: func(context.Context) ([]domain.User, error) {
			return []domain.User{
				{ID: 1, Role: domain.RoleAdmin},
				{ID: 2, Role: domain.RoleStudent},
				{ID: 3, Role: domain.RoleStudent},
			}, nil
		}},
		Classes: &stubClasses{listFn: func(context.Context) ([]domain.Classe, error) {
			return []domain.Classe{{ID: 1}, {ID: 2}}, nil
		}},
		Subjects: &stubSubjects{listFn: func(context.Context) ([]domain.Subject, error) {
			return []domain.Subject{{ID: 1}}, nil
		}},
	})

	got, err := svc.AdminOverview(context.Background())
	if err != nil {
		t.Fatalf("AdminOverview returned error: %v", err)
	}
	if got.Users != 3 || got.Classes != 2 || got.Subjects != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.UsersByRole[domain.RoleStudent] != 2 || got.UsersByRole[domain.RoleAdmin] != 1 {
		t.Fatalf("unexpected per-role counts: %+v", got.UsersByRole)
	}
}

func professorBackends(onClasses func()) Backends {
	return Backends{
		Classes: &stubClasses{mineFn: func(context.Context) ([]domain.Classe, error) {
			if onClasses != nil {
				onClasses()
			}
			return []domain.Classe{{ID: 10, Name: "6e A"}}, nil
		}},
		Subjects: &stubSubjects{mineFn: func(context.Context) ([]domain.Subject, error) {
			return []domain.Subject{{ID: 1, Name: "Maths", Classe: 10}}, nil
		}},
	}
}

func TestDashboardService_ProfessorOverview(t *testing.T) {
	got, err := NewDashboardService(professorBackends(nil)).ProfessorOverview(context.Background())
	if err != nil {
		t.Fatalf("ProfessorOverview returned error: %v", err)
	}
	if len(got.Classes) != 1 || len(got.Subjects) != 1 || got.Subjects[0].Name != "Maths" {
		t.Fatalf("unexpected overview %+v", got)
	}
}

func TestDashboardService_ProfessorOverviewDroppedWhenCallerGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := NewDashboardService(professorBackends(cancel))

	got, err := svc.ProfessorOverview(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected results to be dropped, got %+v", got)
	}
}

func TestDashboardService_ProfessorClass(t *testing.T) {
	svc := NewDashboardService(Backends{
		Subjects: &stubSubjects{byClassFn: func(_ context.Context, classID int64) ([]domain.Subject, error) {
			return []domain.Subject{{ID: 1, Classe: classID}, {ID: 2, Classe: classID}}, nil
		}},
		Assignments: &stubAssignments{bySubjectFn: func(_ context.Context, subjectID int64) ([]domain.Assignment, error) {
			return []domain.Assignment{{ID: subjectID * 10, MatiereID: subjectID}}, nil
		}},
	})

	got, err := svc.ProfessorClass(context.Background(), 5)
	if err != nil {
		t.Fatalf("ProfessorClass returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(got))
	}
	for _, sa := range got {
		if len(sa.Assignments) != 1 || sa.Assignments[0].MatiereID != sa.Subject.ID {
			t.Fatalf("assignments not matched to subject: %+v", sa)
		}
	}
}

func TestDashboardService_GradeSheet(t *testing.T) {
	svc := NewDashboardService(Backends{
		Assignments: &stubAssignments{getFn: func(_ context.Context, id int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: id, Matiere: &domain.Subject{ID: 3, Classe: 8}}, nil
		}},
		Users: &stubUsers{inClassFn: func(_ context.Context, classID int64) ([]domain.User, error) {
			if classID != 8 {
				t.Errorf("roster requested for class %d", classID)
			}
			return []domain.User{{ID: 21}, {ID: 22}}, nil
		}},
		Grades: &stubGrades{byAssignmentFn: func(_ context.Context, assignmentID int64) ([]domain.Grade, error) {
			return []domain.Grade{{Student: 21, Assignment: assignmentID, Grade: 14}}, nil
		}},
	})

	got, err := svc.GradeSheet(context.Background(), 4)
	if err != nil {
		t.Fatalf("GradeSheet returned error: %v", err)
	}
	if len(got.Students) != 2 || len(got.Grades) != 1 || got.Assignment.ID != 4 {
		t.Fatalf("unexpected grade sheet: %+v", got)
	}
}

func TestDashboardService_StudentOverviewError(t *testing.T) {
	svc := NewDashboardService(Backends{
		Grades: &stubGrades{reportFn: func(context.Context, int64) (*domain.StudentReport, error) {
			return nil, domain.ErrForbidden
		}},
		Attendance: &stubAttendance{mineFn: func(context.Context) ([]domain.Attendance, error) {
			return nil, nil
		}},
	})

	if _, err := svc.StudentOverview(context.Background(), 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDashboardService_ChildOverviewFiltersByChild(t *testing.T) {
	svc := NewDashboardService(Backends{
		Grades: &stubGrades{reportFn: func(_ context.Context, id int64) (*domain.StudentReport, error) {
			return &domain.StudentReport{Student: "ana", MoyenneGenerale: 13.5}, nil
		}},
		Attendance: &stubAttendance{historyFn: func(_ context.Context, f domain.AttendanceFilter) ([]domain.Attendance, error) {
			if f.Student != 12 || f.Classe != 0 {
				t.Errorf("unexpected filter: %+v", f)
			}
			return []domain.Attendance{{Student: 12, Status: domain.AttendanceLate}}, nil
		}},
	})

	got, err := svc.ChildOverview(context.Background(), 12)
	if err != nil {
		t.Fatalf("ChildOverview returned error: %v", err)
	}
	if got.Report.Student != "ana" || len(got.Attendance) != 1 {
		t.Fatalf("unexpected overview: %+v", got)
	}
}
