package reports

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"perfboard/internal/dashboard"
	"perfboard/internal/status"
)

// StatusSource is the slice of the dashboard service the report consumes.
type StatusSource interface {
	ComputeEmployeeStatus(ctx context.Context, periodID, employeeID string) (dashboard.EmployeeStatus, error)
}

type Service struct {
	statuses StatusSource
	dir      string
	logger   *slog.Logger
}

func NewService(statuses StatusSource, dir string, logger *slog.Logger) *Service {
	if dir == "" {
		dir = "storage/reports"
	}
	return &Service{statuses: statuses, dir: dir, logger: logger}
}

// GenerateEvaluationSummary renders the employee's evaluation status into a
// PDF and returns the file path.
func (s *Service) GenerateEvaluationSummary(ctx context.Context, periodID, employeeID string) (string, error) {
	result, err := s.statuses.ComputeEmployeeStatus(ctx, periodID, employeeID)
	if err != nil {
		return "", fmt.Errorf("compute status: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.dir, fmt.Sprintf("evaluation-%s-%s.pdf", periodID, employeeID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", result.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", result.PeriodID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Evaluation target: %t", result.IsEvaluationTarget))
	pdf.Ln(10)

	if result.IsEvaluationTarget {
		writeScoreLine(pdf, "Self evaluation", string(result.SelfEvaluation.Status), result.SelfEvaluation.Score, result.SelfEvaluation.Grade)
		writeScoreLine(pdf, "Primary downward", string(result.PrimaryDownward.Status), result.PrimaryDownward.Score, result.PrimaryDownward.Grade)
		writeScoreLine(pdf, "Secondary downward", string(result.SecondaryDownward.Status), result.SecondaryDownward.Score, result.SecondaryDownward.Grade)
		writeProgressLine(pdf, "Peer evaluation", result.PeerEvaluation.Status, result.PeerEvaluation.Completed, result.PeerEvaluation.Assigned)

		pdf.Ln(3)
		if result.FinalEvaluation.Grade != nil {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 8, fmt.Sprintf("Final grade: %s", *result.FinalEvaluation.Grade))
			pdf.Ln(7)
			pdf.SetFont("Helvetica", "", 12)
		}
		pdf.Cell(0, 8, fmt.Sprintf("Final status: %s", result.FinalEvaluation.Status))
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	s.logger.Info("evaluation summary generated",
		"periodId", periodID, "employeeId", employeeID, "path", filePath)
	return filePath, nil
}

func writeScoreLine(pdf *gofpdf.Fpdf, label, trackStatus string, score *float64, grade *string) {
	line := fmt.Sprintf("%s: %s", label, trackStatus)
	if score != nil {
		line += fmt.Sprintf(", score %.2f", *score)
	}
	if grade != nil {
		line += fmt.Sprintf(", grade %s", *grade)
	}
	pdf.Cell(0, 8, line)
	pdf.Ln(7)
}

func writeProgressLine(pdf *gofpdf.Fpdf, label string, trackStatus status.Progress, completed, assigned int) {
	pdf.Cell(0, 8, fmt.Sprintf("%s: %s (%d/%d)", label, trackStatus, completed, assigned))
	pdf.Ln(7)
}
