package service

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// Messages shown after a batch submission.
const (
	MsgAttendanceSaved  = "Présence enregistrée avec succès !"
	MsgAttendanceFailed = "Erreur lors de l'enregistrement de la présence."
	MsgGradesSaved      = "Notes soumises avec succès."
	MsgGradesFailed     = "Erreur lors de la soumission de la note."
)

// BatchError reports a batch in which at least one item failed. Message is
// the localized text for the user; Err joins the item failures.
type BatchError struct {
	Message string
	Failed  int
	Total   int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d items failed: %v", e.Failed, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// BatchResult summarizes a successful batch.
type BatchResult struct {
	Submitted int    `json:"submitted"`
	Message   string `json:"message"`
}

// GradeEntry is one student's note for an assignment.
type GradeEntry struct {
	Student int64   `json:"student" validate:"required"`
	Grade   float64 `json:"grade" validate:"gte=0,lte=20"`
}

// RosterService submits per-student records for a whole class at once.
type RosterService struct {
	batch ports.Batcher
	log   zerolog.Logger
}

func NewRosterService(batch ports.Batcher, log zerolog.Logger) *RosterService {
	return &RosterService{batch: batch, log: log}
}

// MarkAttendance records one presence per student of classID. Students
// missing from statuses are marked present.
func (s *RosterService) MarkAttendance(ctx context.Context, reg ports.AttendanceRegister, classID int64, students []int64, statuses map[int64]domain.AttendanceStatus) (*BatchResult, error) {
	if classID <= 0 || len(students) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]ports.BatchItem, 0, len(students))
	for _, id := range students {
		status, ok := statuses[id]
		if !ok {
			status = domain.AttendancePresent
		}
		if !status.Valid() {
			return nil, fmt.Errorf("student %d: status %q: %w", id, status, domain.ErrInvalidInput)
		}
		mark := domain.Attendance{Student: id, Classe: classID, Status: status}
		items = append(items, ports.BatchItem{
			Key: strconv.FormatInt(id, 10),
			Run: func(ctx context.Context) error {
				if _, err := reg.Mark(ctx, mark); err != nil {
					return fmt.Errorf("student %d: %w", mark.Student, err)
				}
				return nil
			},
		})
	}
	return s.run(ctx, "attendance", items, MsgAttendanceSaved, MsgAttendanceFailed)
}

// SubmitGrades records one grade per entry for assignmentID.
func (s *RosterService) SubmitGrades(ctx context.Context, book ports.GradeBook, assignmentID int64, entries []GradeEntry) (*BatchResult, error) {
	if assignmentID <= 0 || len(entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]ports.BatchItem, 0, len(entries))
	for _, e := range entries {
		if e.Student <= 0 || e.Grade < 0 || e.Grade > domain.MaxGrade {
			return nil, fmt.Errorf("student %d: grade %v: %w", e.Student, e.Grade, domain.ErrInvalidInput)
		}
		grade := domain.Grade{Student: e.Student, Assignment: assignmentID, Grade: e.Grade}
		items = append(items, ports.BatchItem{
			Key: strconv.FormatInt(e.Student, 10),
			Run: func(ctx context.Context) error {
				if _, err := book.Create(ctx, grade); err != nil {
					return fmt.Errorf("student %d: %w", grade.Student, err)
				}
				return nil
			},
		})
	}
	return s.run(ctx, "grades", items, MsgGradesSaved, MsgGradesFailed)
}

func (s *RosterService) run(ctx context.Context, kind string, items []ports.BatchItem, okMsg, failMsg string) (*BatchResult, error) {
	var failed atomic.Int64
	for i := range items {
		run := items[i].Run
		items[i].Run = func(ctx context.Context) error {
			err := run(ctx)
			if err != nil {
				failed.Add(1)
			}
			return err
		}
	}

	if err := s.batch.Dispatch(ctx, items); err != nil {
		n := int(failed.Load())
		if n == 0 {
			n = len(items)
		}
		s.log.Error().Err(err).
			Str("batch", kind).
			Int("failed", n).
			Int("total", len(items)).
			Msg("batch submission failed")
		return nil, &BatchError{Message: failMsg, Failed: n, Total: len(items), Err: err}
	}
	return &BatchResult{Submitted: len(items), Message: okMsg}, nil
}
