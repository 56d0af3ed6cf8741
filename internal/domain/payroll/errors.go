package payroll

import "errors"

var (
	ErrBatchNotFound    = errors.New("payroll batch not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)
