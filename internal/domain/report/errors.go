package report

import "errors"

var (
	ErrNoTimesheetsToExport = errors.New("no timesheets found for the requested period")
)
