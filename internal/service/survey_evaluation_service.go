package service

import (
	"context"
	"errors"
	"fmt"

	"survegio_backend/internal/model"
	"survegio_backend/internal/util"
	"survegio_backend/pkg/logger"
	"survegio_backend/pkg/monitoring"
	"survegio_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ReportKindInstructor = "instructor"
	ReportKindOffice     = "office"
)

// SaveSurveyRequest 问卷设置加上本次选择的班级、院系、学生
type SaveSurveyRequest struct {
	model.SurveySettings
	ClassIDs      []uint `json:"class_ids"`
	DepartmentIDs []uint `json:"department_ids"`
	StudentIDs    []uint `json:"student_ids"`
}

type SaveResult struct {
	SurveyID       uint              `json:"surveyId"`
	EvaluationType string            `json:"evaluationType"`
	AssignmentMode string            `json:"assignmentMode"`
	Percentage     float64           `json:"studentPercentage"`
	PopulationSize int               `json:"populationSize"`
	SelectedCount  int               `json:"selectedCount"`
	Students       AssignmentSummary `json:"students"`
	Classes        AssignmentSummary `json:"classes"`
	Departments    AssignmentSummary `json:"departments"`
}

// Snapshot 一次请求内读取到的全部数据，不跨请求缓存
type Snapshot struct {
	Survey     model.StudentEvaluationSurvey
	Terms      []model.AcademicTerm
	Offices    []model.SchoolOffice
	Classes    []model.Class
	Students   []model.Student
	Responses  []model.StudentSurveyResponse
	ClassMap   AssignmentMapping
	StudentMap AssignmentMapping
	DeptMap    AssignmentMapping
}

func (s *Snapshot) Composer() *ReportComposer {
	return &ReportComposer{
		Survey:           s.Survey,
		Terms:            s.Terms,
		Offices:          s.Offices,
		Classes:          s.Classes,
		Students:         s.Students,
		AssignedClassIDs: s.ClassMap.MemberIDs(),
		AssignedStudents: s.StudentMap.Len(),
		DepartmentIDs:    s.DeptMap.MemberIDs(),
		Responses:        s.Responses,
	}
}

type SurveyEvaluationService struct {
	store  SurveyStore
	locker SaveLocker
}

func NewSurveyEvaluationService(store SurveyStore, locker SaveLocker) *SurveyEvaluationService {
	if locker == nil {
		locker = NewLocalSaveLocker()
	}
	return &SurveyEvaluationService{store: store, locker: locker}
}

func (s *SurveyEvaluationService) LoadSnapshot(ctx context.Context, surveyID uint) (snap *Snapshot, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "SurveyEvaluationService.LoadSnapshot")
	span.SetAttributes(attribute.Int64("survey.id", int64(surveyID)))
	defer func() { tracing.EndSpan(span, err) }()

	survey, err := s.store.FetchSurveyConfig(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	snap = &Snapshot{Survey: *survey}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Terms, err = s.store.FetchAcademicTerms(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Offices, err = s.store.FetchSchoolOffices(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Classes, err = s.store.FetchClasses(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		snap.Responses, err = s.store.FetchResponses(gctx, surveyID)
		return err
	})
	if survey.EvaluationType == model.EvaluationOffice {
		g.Go(func() (err error) {
			snap.Students, err = s.store.FetchStudents(gctx)
			return err
		})
	}
	mappings := []struct {
		relation string
		dst      *AssignmentMapping
	}{
		{model.RelationClasses, &snap.ClassMap},
		{model.RelationStudents, &snap.StudentMap},
		{model.RelationDepartments, &snap.DeptMap},
	}
	for _, m := range mappings {
		g.Go(func() error {
			entries, err := s.store.FetchAssignmentMapping(gctx, surveyID, m.relation)
			if err != nil {
				return fmt.Errorf("fetch %s mapping: %w", m.relation, err)
			}
			*m.dst = NewAssignmentMapping(entries)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Log.Error("Failed to load survey snapshot", zap.Uint("survey_id", surveyID), zap.Error(err))
		return nil, err
	}
	return snap, nil
}

// SaveSurvey 保存设置并按抽样结果整体同步分配关系；设置与关联在同一次写入中提交
func (s *SurveyEvaluationService) SaveSurvey(ctx context.Context, surveyID uint, req SaveSurveyRequest) (result *SaveResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "SurveyEvaluationService.SaveSurvey")
	span.SetAttributes(
		attribute.Int64("survey.id", int64(surveyID)),
		attribute.String("survey.evaluation_type", req.EvaluationType),
		attribute.String("survey.assignment_mode", req.AssignmentMode),
	)
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		monitoring.AssignmentSaves.WithLabelValues(req.EvaluationType, outcome).Inc()
		tracing.EndSpan(span, err)
	}()

	release, err := s.locker.Acquire(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !model.IsValidEvaluationType(req.EvaluationType) {
		return nil, util.ErrInvalidEvaluationType
	}
	if !model.IsValidAssignmentMode(req.AssignmentMode) {
		return nil, util.ErrInvalidAssignmentMode
	}
	if req.Status != "" && !model.IsValidSurveyStatus(req.Status) {
		return nil, util.ErrInvalidSurveyStatus
	}
	if _, err := s.store.FetchSurveyConfig(ctx, surveyID); err != nil {
		return nil, err
	}

	settings := req.SurveySettings
	settings.StudentPercentage = ClampPercentage(settings.StudentPercentage)

	var (
		population     []uint
		desiredClasses []uint
		desiredDepts   []uint
	)
	switch {
	case settings.EvaluationType == model.EvaluationClass:
		if len(req.ClassIDs) > 0 {
			classes, err := s.store.FetchClasses(ctx, req.ClassIDs)
			if err != nil {
				return nil, fmt.Errorf("fetch selected classes: %w", err)
			}
			desiredClasses, population = classSelection(classes)
		}
	case settings.AssignmentMode == model.AssignmentAll:
		population, err = s.store.FetchEligibleStudents(ctx)
	case settings.AssignmentMode == model.AssignmentDepartment:
		departments, err := s.store.FetchDepartments(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch departments: %w", err)
		}
		desiredDepts = knownIDs(req.DepartmentIDs, departments)
		if len(desiredDepts) > 0 {
			if population, err = s.store.FetchStudentsInDepartments(ctx, desiredDepts); err != nil {
				return nil, fmt.Errorf("resolve student population: %w", err)
			}
		}
	case settings.AssignmentMode == model.AssignmentSpecific:
		population = distinctIDs(req.StudentIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve student population: %w", err)
	}

	selected := SelectSample(population, settings.StudentPercentage, uint64(surveyID))
	monitoring.SampledStudents.Observe(float64(len(selected)))

	current, err := s.currentMappings(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	deltas := map[string]AssignmentDelta{
		model.RelationStudents:    DiffAssignments(current[model.RelationStudents], selected),
		model.RelationClasses:     DiffAssignments(current[model.RelationClasses], desiredClasses),
		model.RelationDepartments: DiffAssignments(current[model.RelationDepartments], desiredDepts),
	}

	var writes []model.AssignmentWrite
	for _, relation := range []string{model.RelationStudents, model.RelationClasses, model.RelationDepartments} {
		if d := deltas[relation]; !d.IsNoop() {
			writes = append(writes, model.AssignmentWrite{Relation: relation, Entries: d.Entries()})
		}
	}
	if err := s.store.SaveSurvey(ctx, surveyID, settings, writes...); err != nil {
		return nil, fmt.Errorf("write assignments: %w", err)
	}

	result = &SaveResult{
		SurveyID:       surveyID,
		EvaluationType: settings.EvaluationType,
		AssignmentMode: settings.AssignmentMode,
		Percentage:     settings.StudentPercentage,
		PopulationSize: len(population),
		SelectedCount:  len(selected),
		Students:       deltas[model.RelationStudents].Summary(),
		Classes:        deltas[model.RelationClasses].Summary(),
		Departments:    deltas[model.RelationDepartments].Summary(),
	}

	logger.Log.Info("Survey assignments saved",
		zap.Uint("survey_id", surveyID),
		zap.String("evaluation_type", settings.EvaluationType),
		zap.String("assignment_mode", settings.AssignmentMode),
		zap.Int("population", result.PopulationSize),
		zap.Int("selected", result.SelectedCount),
		zap.Int("students_created", result.Students.Created),
		zap.Int("students_deleted", result.Students.Deleted),
		zap.Int("relation_writes", len(writes)),
	)
	return result, nil
}

func (s *SurveyEvaluationService) currentMappings(ctx context.Context, surveyID uint) (map[string]AssignmentMapping, error) {
	relations := []string{model.RelationStudents, model.RelationClasses, model.RelationDepartments}
	fetched := make([]AssignmentMapping, len(relations))

	g, gctx := errgroup.WithContext(ctx)
	for i, relation := range relations {
		g.Go(func() error {
			entries, err := s.store.FetchAssignmentMapping(gctx, surveyID, relation)
			if err != nil {
				return fmt.Errorf("fetch %s mapping: %w", relation, err)
			}
			fetched[i] = NewAssignmentMapping(entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]AssignmentMapping, len(relations))
	for i, relation := range relations {
		out[relation] = fetched[i]
	}
	return out, nil
}

// classSelection 返回存在的班级 ID 及其学生（跨班去重）
func classSelection(classes []model.Class) (classIDs, studentIDs []uint) {
	seen := make(map[uint]struct{})
	for _, cls := range classes {
		classIDs = append(classIDs, cls.ID)
		for _, sid := range cls.StudentIDs() {
			if _, ok := seen[sid]; ok {
				continue
			}
			seen[sid] = struct{}{}
			studentIDs = append(studentIDs, sid)
		}
	}
	return distinctIDs(classIDs), studentIDs
}

// knownIDs 去重并丢弃不存在的 ID，保持请求中的顺序
func knownIDs[T model.Identified](ids []uint, items []T) []uint {
	exists := make(map[uint]bool, len(items))
	for _, item := range items {
		exists[item.RefID()] = true
	}
	var out []uint
	for _, id := range distinctIDs(ids) {
		if exists[id] {
			out = append(out, id)
		}
	}
	return out
}

func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *SurveyEvaluationService) composer(ctx context.Context, surveyID uint) (*ReportComposer, error) {
	snap, err := s.LoadSnapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return snap.Composer(), nil
}

func (s *SurveyEvaluationService) Overview(ctx context.Context, surveyID uint) (*model.EvaluationOverview, error) {
	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	overview := rc.Overview()
	return &overview, nil
}

func (s *SurveyEvaluationService) QuestionStats(ctx context.Context, surveyID uint) ([]model.QuestionStats, error) {
	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return rc.QuestionStats(), nil
}

func (s *SurveyEvaluationService) YearLevelBreakdown(ctx context.Context, surveyID uint) (map[string]model.ResponseGroup, error) {
	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return rc.YearLevels(), nil
}

func (s *SurveyEvaluationService) Instructors(ctx context.Context, surveyID uint) ([]model.InstructorSummary, error) {
	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return rc.Instructors(), nil
}

// InstructorReport 教师在该问卷下没有已分配班级时返回 (nil, nil)
func (s *SurveyEvaluationService) InstructorReport(ctx context.Context, surveyID, instructorID uint) (report *model.InstructorReportData, err error) {
	defer func() { observeReport(ReportKindInstructor, report != nil, err) }()

	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return rc.InstructorReport(instructorID), nil
}

// OfficeReport 非部门问卷或部门无法解析时返回 (nil, nil)
func (s *SurveyEvaluationService) OfficeReport(ctx context.Context, surveyID uint) (report *model.OfficeReportData, err error) {
	defer func() { observeReport(ReportKindOffice, report != nil, err) }()

	rc, err := s.composer(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return rc.OfficeReport(), nil
}

func observeReport(kind string, found bool, err error) {
	result := "success"
	switch {
	case errors.Is(err, util.ErrSurveyNotFound):
		result = "survey_not_found"
	case err != nil:
		result = "error"
	case !found:
		result = "not_found"
	}
	monitoring.ReportsBuilt.WithLabelValues(kind, result).Inc()
}
