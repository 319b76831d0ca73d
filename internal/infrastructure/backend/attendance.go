package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const attendancePath = "attendance/"

// Attendance implements ports.AttendanceRegister.
type Attendance struct {
	c *Client
}

// Mark records one presence. Supervisor only.
func (a *Attendance) Mark(ctx context.Context, in domain.Attendance) (*domain.Attendance, error) {
	if !in.Status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out domain.Attendance
	if err := a.c.do(ctx, call{method: http.MethodPost, path: attendancePath, body: in,
		message: "Erreur lors de la prise de présence."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists presence records matching f.
func (a *Attendance) History(ctx context.Context, f domain.AttendanceFilter) ([]domain.Attendance, error) {
	var out []domain.Attendance
	err := a.c.do(ctx, call{method: http.MethodGet, path: attendancePath + "history/", query: filterQuery(f),
		message: "Erreur lors de la récupération de l'historique."}, &out)
	return out, err
}

func (a *Attendance) Mine(ctx context.Context) ([]domain.Attendance, error) {
	var out []domain.Attendance
	err := a.c.do(ctx, call{method: http.MethodGet, path: attendancePath + "my_attendance/",
		message: "Erreur lors de la récupération des présences."}, &out)
	return out, err
}

// ClassStats returns per-class attendance totals. Admin only.
func (a *Attendance) ClassStats(ctx context.Context) ([]domain.ClassAttendance, error) {
	var out []domain.ClassAttendance
	err := a.c.do(ctx, call{method: http.MethodGet, path: attendancePath + "class_attendance/",
		message: "Erreur lors de la récupération des statistiques."}, &out)
	return out, err
}

func (a *Attendance) Update(ctx context.Context, id int64, status domain.AttendanceStatus) (*domain.Attendance, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out domain.Attendance
	if err := a.c.do(ctx, call{method: http.MethodPatch, path: idPath(attendancePath, id, ""),
		body: map[string]domain.AttendanceStatus{"status": status}, message: "Erreur lors de la mise à jour de la présence."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a presence record and returns the confirmation message.
func (a *Attendance) Delete(ctx context.Context, id int64) (*domain.Message, error) {
	if err := a.c.do(ctx, call{method: http.MethodDelete, path: idPath(attendancePath, id, ""),
		message: "Erreur lors de la suppression de la présence."}, nil); err != nil {
		return nil, err
	}
	return &domain.Message{Message: "Présence supprimée avec succès."}, nil
}

func filterQuery(f domain.AttendanceFilter) url.Values {
	q := url.Values{}
	if f.Classe != 0 {
		q.Set("classe", strconv.FormatInt(f.Classe, 10))
	}
	if f.Student != 0 {
		q.Set("student", strconv.FormatInt(f.Student, 10))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	return q
}
