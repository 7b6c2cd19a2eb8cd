package report

import (
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
	detailsSheet = "Details"
	internsSheet = "Interns"

	exportDateLayout = "02.01.2006"
)

var (
	summaryHeader = []interface{}{
		"Intern", "Internship Type", "Period", "Status", "Work Days", "Leave Days",
		"Training Hours", "Meal Allowance Days", "Supervisor", "Approver", "Manual Entry",
	}
	detailsHeader = []interface{}{
		"Intern", "Date", "Day", "Present", "Location", "Start", "End",
		"Leave Info", "Leave Hours", "Training Info", "Training Hours", "Meal Allowance", "Notes",
	}
	internsHeader = []interface{}{
		"Full Name", "Company", "Department", "Email", "Phone", "School", "Major",
		"Responsible Person", "Internship Type", "Work Days", "Workplace",
		"Start Date", "End Date", "Employee Number",
	}
)

func buildWorkbook(sheets []timesheet.Timesheet, details [][]timesheet.TimesheetDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return nil, err
	}

	if err := writeHeader(f, summarySheet, summaryHeader); err != nil {
		return nil, err
	}
	if err := writeHeader(f, detailsSheet, detailsHeader); err != nil {
		return nil, err
	}

	detailRow := 2
	for i, t := range sheets {
		name := deref(t.InternName)
		meal := 0
		for _, d := range details[i] {
			if d.HasMealAllowance {
				meal++
			}
			row := []interface{}{
				name,
				workday.DateKey(d.WorkDate),
				d.DayName,
				yesNo(d.IsPresent),
				string(d.WorkLocation),
				timeOrEmpty(d.StartTime),
				timeOrEmpty(d.EndTime),
				deref(d.LeaveInfo),
				d.LeaveHours.InexactFloat64(),
				deref(d.TrainingInfo),
				d.TrainingHours.InexactFloat64(),
				yesNo(d.HasMealAllowance),
				deref(d.Notes),
			}
			if err := writeRow(f, detailsSheet, detailRow, row); err != nil {
				return nil, err
			}
			detailRow++
		}

		summary := []interface{}{
			name,
			t.InternshipType.Label(),
			t.PeriodDate.Format("2006-01"),
			string(t.Status),
			t.TotalWorkDays,
			t.TotalLeaveDays,
			t.TotalTrainingHours.InexactFloat64(),
			meal,
			deref(t.SupervisorName),
			deref(t.ApproverName),
			yesNo(t.IsManualEntry),
		}
		if err := writeRow(f, summarySheet, i+2, summary); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildInternWorkbook(interns []intern.Intern) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", internsSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, internsSheet, internsHeader); err != nil {
		return nil, err
	}

	for i, in := range interns {
		row := []interface{}{
			in.FullName,
			deref(in.Company),
			deref(in.Department),
			in.Email,
			deref(in.PhoneNumber),
			deref(in.School),
			deref(in.Major),
			deref(in.ResponsiblePerson),
			in.InternshipType.Label(),
			deref(in.WorkDays),
			deref(in.Workplace),
			dateOrEmpty(in.StartDate),
			dateOrEmpty(in.EndDate),
			deref(in.EmployeeNumber),
		}
		if err := writeRow(f, internsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeHeader writes a bold, frozen header row.
func writeHeader(f *excelize.File, sheet string, header []interface{}) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func timeOrEmpty(t *workday.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
