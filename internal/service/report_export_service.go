package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"survegio_backend/internal/util"
	"survegio_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportRequest 导出报表请求；InstructorID 仅 instructor 报表使用
type ExportRequest struct {
	Kind         string `json:"kind" binding:"required"`
	InstructorID uint   `json:"instructorId"`
}

type ExportResult struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// ReportExportService 将报表序列化为 JSON 文件并上传到存储后端
type ReportExportService struct {
	evaluations *SurveyEvaluationService
	storage     StorageProvider
	prefix      string
}

func NewReportExportService(evaluations *SurveyEvaluationService, storage StorageProvider, prefix string) *ReportExportService {
	if prefix == "" {
		prefix = "reports"
	}
	return &ReportExportService{evaluations: evaluations, storage: storage, prefix: prefix}
}

func (s *ReportExportService) ExportReport(ctx context.Context, surveyID uint, req ExportRequest) (*ExportResult, error) {
	var (
		report any
		found  bool
	)
	switch req.Kind {
	case ReportKindInstructor:
		r, err := s.evaluations.InstructorReport(ctx, surveyID, req.InstructorID)
		if err != nil {
			return nil, err
		}
		report, found = r, r != nil
	case ReportKindOffice:
		r, err := s.evaluations.OfficeReport(ctx, surveyID)
		if err != nil {
			return nil, err
		}
		report, found = r, r != nil
	default:
		return nil, util.ErrInvalidReportKind
	}
	if !found {
		return nil, util.ErrReportNotAvailable
	}
	return s.Export(ctx, surveyID, req.Kind, report)
}

// Export 写入 {prefix}/{surveyID}/{kind}-{uuid}.json
func (s *ReportExportService) Export(ctx context.Context, surveyID uint, kind string, report any) (*ExportResult, error) {
	if s.storage == nil {
		return nil, util.ErrStorageNotConfigured
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s report: %w", kind, err)
	}

	key := path.Join(s.prefix, fmt.Sprint(surveyID), fmt.Sprintf("%s-%s.json", kind, uuid.NewString()))
	url, err := s.storage.Put(ctx, key, bytes.NewReader(body), int64(len(body)), util.MimeJSON)
	if err != nil {
		return nil, fmt.Errorf("store %s report: %w", kind, err)
	}

	logger.Log.Info("Report exported",
		zap.Uint("survey_id", surveyID),
		zap.String("kind", kind),
		zap.String("key", key),
		zap.Int("bytes", len(body)),
	)
	return &ExportResult{Kind: kind, Key: key, URL: url}, nil
}
