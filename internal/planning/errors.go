package planning

import "errors"

var (
	ErrUnknownDateFilter = errors.New("unknown date filter")
	ErrUnknownDateField  = errors.New("unknown date field")
	ErrUnknownSortColumn = errors.New("unknown sort column")
	ErrInvalidWeekKey    = errors.New("invalid week key")
	ErrBucketNotFound    = errors.New("week bucket not found")
)
