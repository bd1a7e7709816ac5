package util

import "errors"

var (
	ErrSurveyNotFound        = errors.New("survey not found")
	ErrSaveInProgress        = errors.New("survey save already in progress")
	ErrInvalidEvaluationType = errors.New("evaluation type must be Class or Office")
	ErrInvalidAssignmentMode = errors.New("assignment mode must be all, department or specific")
	ErrInvalidSurveyStatus   = errors.New("survey status must be Draft, Active or Archived")
	ErrInvalidRelation       = errors.New("unknown assignment relation")
	ErrInvalidReportKind     = errors.New("report kind must be instructor or office")
	ErrReportNotAvailable    = errors.New("report not available")
	ErrStorageNotConfigured  = errors.New("storage provider not configured")
)
