package report

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrBatchNotCompleted = errors.New("batch is not completed")
	ErrNoSalaryData      = errors.New("no salary data")
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
