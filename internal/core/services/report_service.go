package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the export workbook
const (
	SheetRequests     = "Requests"
	SheetTransactions = "Transactions"
)

// ReportService builds the owner's xlsx export
type ReportService struct {
	store *repositories.Store
}

// NewReportService creates a new report service
func NewReportService(store *repositories.Store) *ReportService {
	return &ReportService{store: store}
}

type sheetSpec struct {
	title  string
	header []string
	rows   [][]string
}

// Filename is the suggested download name for an export made at t
func (s *ReportService) Filename(t time.Time) string {
	return fmt.Sprintf("homework_%s.xlsx", t.Format("2006-01-02"))
}

// Export renders every request and transaction as an xlsx workbook
func (s *ReportService) Export(ctx context.Context) ([]byte, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.store.Requests.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	subjects := make(map[string]string, len(reqs))
	for _, r := range reqs {
		subjects[r.ID] = r.Subject
	}

	sheets := []sheetSpec{
		requestSheet(reqs, names),
		transactionSheet(txs, names, subjects),
	}
	f, err := buildWorkbook(sheets)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func requestSheet(reqs []*domain.HomeworkRequest, names map[string]string) sheetSpec {
	s := sheetSpec{
		title: SheetRequests,
		header: []string{
			"ID", "Student", "Subject", "Grade", "Units", "Delivery Days",
			"Estimated", "Original", "Discount", "Status", "Payment", "Method", "Season", "Created",
		},
	}
	for _, r := range reqs {
		season := ""
		if r.SeasonID != nil {
			season = *r.SeasonID
		}
		s.rows = append(s.rows, []string{
			r.ID,
			names[r.UserID],
			r.Subject,
			r.Grade,
			fmt.Sprintf("%d %s", r.Units(), r.CalculationType),
			fmt.Sprint(r.DeliveryDays),
			r.EstimatedAmount.StringFixed(2),
			r.OriginalAmount.StringFixed(2),
			r.DiscountAmount.StringFixed(2),
			string(r.Status),
			string(r.PaymentStatus),
			string(r.PaymentMethod),
			season,
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return s
}

func transactionSheet(txs []*domain.Transaction, names, subjects map[string]string) sheetSpec {
	s := sheetSpec{
		title:  SheetTransactions,
		header: []string{"ID", "Student", "Subject", "Reference", "Amount", "Status", "Created", "Updated"},
	}
	for _, tx := range txs {
		updated := ""
		if tx.UpdatedAt != nil {
			updated = tx.UpdatedAt.Format(time.RFC3339)
		}
		s.rows = append(s.rows, []string{
			tx.ID,
			names[tx.UserID],
			subjects[tx.HomeworkID],
			tx.TransactionID,
			tx.Amount.StringFixed(2),
			string(tx.Status),
			tx.CreatedAt.Format(time.RFC3339),
			updated,
		})
	}
	return s
}

func buildWorkbook(sheets []sheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		for col, h := range s.header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellStr(s.title, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(s.header), 1)
		_ = f.SetCellStyle(s.title, "A1", end, bold)
		_ = f.AutoFilter(s.title, "A1:"+end, nil)

		for r, row := range s.rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellStr(s.title, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := range s.header {
			col, _ := excelize.ColumnNumberToName(c + 1)
			_ = f.SetColWidth(s.title, col, col, columnWidth(s, c))
		}
	}
	return f, nil
}

// columnWidth sizes a column from its header and first rows
func columnWidth(s sheetSpec, c int) float64 {
	longest := len(s.header[c])
	for r := 0; r < len(s.rows) && r < 50; r++ {
		if l := len(s.rows[r][c]); l > longest {
			longest = l
		}
	}
	w := float64(longest) * 0.9
	if w < 12 {
		w = 12
	}
	if w > 40 {
		w = 40
	}
	return w
}
