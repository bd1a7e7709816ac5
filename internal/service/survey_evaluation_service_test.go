package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"survegio_backend/internal/model"
	"survegio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	surveys   map[uint]*model.StudentEvaluationSurvey
	classes   []model.Class
	students  []model.Student
	terms     []model.AcademicTerm
	offices   []model.SchoolOffice
	responses []model.StudentSurveyResponse
	junctions map[string][]model.AssignmentEntry
	nextID    uint

	writeCalls int
	saveCalls  int
	failOn     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		surveys:   make(map[uint]*model.StudentEvaluationSurvey),
		junctions: make(map[string][]model.AssignmentEntry),
		nextID:    500,
	}
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeStore) FetchSurveyConfig(_ context.Context, surveyID uint) (*model.StudentEvaluationSurvey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[surveyID]
	if !ok {
		return nil, util.ErrSurveyNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) FetchAssignmentMapping(_ context.Context, _ uint, relation string) ([]model.AssignmentEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("mapping"); err != nil {
		return nil, err
	}
	return append([]model.AssignmentEntry(nil), f.junctions[relation]...), nil
}

// SaveSurvey 模拟单事务写入：失败时设置与关联都不变
func (f *fakeStore) SaveSurvey(_ context.Context, surveyID uint, settings model.SurveySettings, writes ...model.AssignmentWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("write"); err != nil {
		return err
	}
	s, ok := f.surveys[surveyID]
	if !ok {
		return util.ErrSurveyNotFound
	}
	f.saveCalls++
	settings.Apply(s)
	if len(writes) > 0 {
		f.writeCalls++
	}
	for _, w := range writes {
		entries := append([]model.AssignmentEntry(nil), w.Entries...)
		for i := range entries {
			if entries[i].JunctionID == 0 {
				f.nextID++
				entries[i].JunctionID = f.nextID
			}
		}
		f.junctions[w.Relation] = entries
	}
	return nil
}

func (f *fakeStore) FetchResponses(context.Context, uint) ([]model.StudentSurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("responses"); err != nil {
		return nil, err
	}
	return f.responses, nil
}

func (f *fakeStore) FetchStudents(context.Context) ([]model.Student, error) {
	return f.students, nil
}

func (f *fakeStore) FetchEligibleStudents(context.Context) ([]uint, error) {
	return EligibleStudentIDs(f.students), nil
}

func (f *fakeStore) FetchStudentsInDepartments(_ context.Context, departmentIDs []uint) ([]uint, error) {
	return StudentIDsInDepartments(f.students, departmentIDs), nil
}

func (f *fakeStore) FetchClasses(_ context.Context, ids []uint) ([]model.Class, error) {
	if len(ids) == 0 {
		return f.classes, nil
	}
	want := make(map[uint]bool)
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Class
	for _, c := range f.classes {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchAcademicTerms(context.Context) ([]model.AcademicTerm, error) {
	return f.terms, nil
}

func (f *fakeStore) FetchSchoolOffices(context.Context) ([]model.SchoolOffice, error) {
	return f.offices, nil
}

func (f *fakeStore) FetchDepartments(context.Context) ([]model.Department, error) {
	dept := model.Department{}
	dept.ID = 7
	return []model.Department{dept}, nil
}

func (f *fakeStore) memberIDs(relation string) []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, e := range f.junctions[relation] {
		ids = append(ids, e.MemberID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, uint) (func(), error) {
	return nil, util.ErrSaveInProgress
}

func seededStore() *fakeStore {
	f := newFakeStore()
	survey := &model.StudentEvaluationSurvey{Title: "Midterm", EvaluationType: model.EvaluationClass}
	survey.ID = 42
	f.surveys[42] = survey

	ana := teacher(5, "Ana", "Reyes")
	f.classes = []model.Class{
		class(10, "A", ana, seqFrom(1, 20)...),
		class(11, "B", ana, seqFrom(21, 10)...),
		class(12, "C", nil, 1, 2, 31),
	}
	for _, id := range seqFrom(1, 10) {
		st := student(id, "", "S", "")
		st.Classes = []model.ClassStudent{{ClassID: 10, StudentID: id}}
		if id%2 == 0 {
			st.DepartmentID = uintPtr(7)
		}
		f.students = append(f.students, *st)
	}
	f.students = append(f.students, *student(99, "", "Unenrolled", ""))
	return f
}

func classRequest(percentage float64, classIDs ...uint) SaveSurveyRequest {
	return SaveSurveyRequest{
		SurveySettings: model.SurveySettings{
			Title:             "Midterm",
			EvaluationType:    model.EvaluationClass,
			AssignmentMode:    model.AssignmentAll,
			StudentPercentage: percentage,
		},
		ClassIDs: classIDs,
	}
}

func officeRequest(mode string, percentage float64) SaveSurveyRequest {
	return SaveSurveyRequest{
		SurveySettings: model.SurveySettings{
			Title:             "Registrar",
			EvaluationType:    model.EvaluationOffice,
			OfficeID:          uintPtr(4),
			AssignmentMode:    mode,
			StudentPercentage: percentage,
		},
	}
}

func TestSaveSurvey_ClassResaveIsNoop(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)
	ctx := context.Background()

	first, err := svc.SaveSurvey(ctx, 42, classRequest(100, 10, 11))
	require.NoError(t, err)
	assert.Equal(t, 30, first.PopulationSize)
	assert.Equal(t, 30, first.SelectedCount)
	assert.Equal(t, AssignmentSummary{Created: 30}, first.Students)
	assert.Equal(t, AssignmentSummary{Created: 2}, first.Classes)
	assert.Equal(t, 1, store.writeCalls)
	assert.Equal(t, []uint{10, 11}, store.memberIDs(model.RelationClasses))

	second, err := svc.SaveSurvey(ctx, 42, classRequest(100, 10, 11))
	require.NoError(t, err)
	assert.Equal(t, AssignmentSummary{Kept: 30}, second.Students)
	assert.Equal(t, AssignmentSummary{Kept: 2}, second.Classes)
	assert.Equal(t, 1, store.writeCalls, "unchanged selection must not write")
}

func TestSaveSurvey_OfficeAllResaveIsNoop(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)
	ctx := context.Background()

	first, err := svc.SaveSurvey(ctx, 42, officeRequest(model.AssignmentAll, 100))
	require.NoError(t, err)
	assert.Equal(t, 10, first.PopulationSize)
	assert.Equal(t, 10, first.SelectedCount)
	assert.Equal(t, AssignmentSummary{Created: 10}, first.Students)
	assert.Equal(t, seqFrom(1, 10), store.memberIDs(model.RelationStudents))
	assert.NotContains(t, store.memberIDs(model.RelationStudents), uint(99))
	assert.Equal(t, 1, store.writeCalls)

	second, err := svc.SaveSurvey(ctx, 42, officeRequest(model.AssignmentAll, 100))
	require.NoError(t, err)
	assert.Equal(t, AssignmentSummary{Kept: 10}, second.Students)
	assert.Equal(t, AssignmentSummary{}, second.Classes)
	assert.Equal(t, AssignmentSummary{}, second.Departments)
	assert.Equal(t, 1, store.writeCalls, "unchanged selection must not rewrite links")
	assert.Equal(t, 2, store.saveCalls)
}

func TestSaveSurvey_OverlappingClassesDedupStudents(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)

	res, err := svc.SaveSurvey(context.Background(), 42, classRequest(100, 10, 12, 12, 404))
	require.NoError(t, err)
	assert.Equal(t, 21, res.PopulationSize)
	assert.Equal(t, []uint{10, 12}, store.memberIDs(model.RelationClasses))
}

func TestSaveSurvey_RaisingPercentageKeepsEarlierSample(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)
	ctx := context.Background()

	half, err := svc.SaveSurvey(ctx, 42, officeRequest(model.AssignmentAll, 50))
	require.NoError(t, err)
	assert.Equal(t, 10, half.PopulationSize)
	assert.Equal(t, 5, half.SelectedCount)
	before := store.memberIDs(model.RelationStudents)

	full, err := svc.SaveSurvey(ctx, 42, officeRequest(model.AssignmentAll, 100))
	require.NoError(t, err)
	assert.Equal(t, AssignmentSummary{Kept: 5, Created: 5}, full.Students)
	assert.Subset(t, store.memberIDs(model.RelationStudents), before)
	assert.Equal(t, seqFrom(1, 10), store.memberIDs(model.RelationStudents))
}

func TestSaveSurvey_DepartmentMode(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)
	ctx := context.Background()

	_, err := svc.SaveSurvey(ctx, 42, classRequest(100, 10))
	require.NoError(t, err)

	req := officeRequest(model.AssignmentDepartment, 100)
	req.DepartmentIDs = []uint{7, 7, 404}
	res, err := svc.SaveSurvey(ctx, 42, req)
	require.NoError(t, err)

	assert.Equal(t, 5, res.SelectedCount)
	assert.Equal(t, AssignmentSummary{Deleted: 1}, res.Classes, "class links are cleared for office surveys")
	assert.Equal(t, AssignmentSummary{Created: 1}, res.Departments)
	assert.Equal(t, []uint{2, 4, 6, 8, 10}, store.memberIDs(model.RelationStudents))
	assert.Empty(t, store.memberIDs(model.RelationClasses))
}

func TestSaveSurvey_SpecificModeClampsPercentage(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)

	req := officeRequest(model.AssignmentSpecific, 150)
	req.StudentIDs = []uint{3, 0, 3, 9}
	res, err := svc.SaveSurvey(context.Background(), 42, req)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.Percentage)
	assert.Equal(t, 100.0, store.surveys[42].StudentPercentage)
	assert.Equal(t, []uint{3, 9}, store.memberIDs(model.RelationStudents))
}

func TestSaveSurvey_Rejections(t *testing.T) {
	t.Run("evaluation type", func(t *testing.T) {
		store := seededStore()
		req := classRequest(100, 10)
		req.EvaluationType = "Dorm"
		_, err := NewSurveyEvaluationService(store, nil).SaveSurvey(context.Background(), 42, req)
		assert.ErrorIs(t, err, util.ErrInvalidEvaluationType)
		assert.Zero(t, store.saveCalls)
	})

	t.Run("assignment mode", func(t *testing.T) {
		store := seededStore()
		_, err := NewSurveyEvaluationService(store, nil).SaveSurvey(context.Background(), 42, officeRequest("random", 10))
		assert.ErrorIs(t, err, util.ErrInvalidAssignmentMode)
		assert.Zero(t, store.saveCalls)
	})

	t.Run("missing survey", func(t *testing.T) {
		store := seededStore()
		_, err := NewSurveyEvaluationService(store, nil).SaveSurvey(context.Background(), 7, classRequest(100, 10))
		assert.ErrorIs(t, err, util.ErrSurveyNotFound)
	})

	t.Run("concurrent save", func(t *testing.T) {
		store := seededStore()
		_, err := NewSurveyEvaluationService(store, busyLocker{}).SaveSurvey(context.Background(), 42, classRequest(100, 10))
		assert.ErrorIs(t, err, util.ErrSaveInProgress)
		assert.Zero(t, store.saveCalls)
	})

	t.Run("survey status", func(t *testing.T) {
		store := seededStore()
		req := classRequest(100, 10)
		req.Status = "Closed"
		_, err := NewSurveyEvaluationService(store, nil).SaveSurvey(context.Background(), 42, req)
		assert.ErrorIs(t, err, util.ErrInvalidSurveyStatus)
		assert.Zero(t, store.saveCalls)
	})

	t.Run("write failure keeps settings and links", func(t *testing.T) {
		store := seededStore()
		svc := NewSurveyEvaluationService(store, nil)
		ctx := context.Background()

		_, err := svc.SaveSurvey(ctx, 42, classRequest(100, 10))
		require.NoError(t, err)
		students := store.memberIDs(model.RelationStudents)

		store.failOn = "write"
		_, err = svc.SaveSurvey(ctx, 42, officeRequest(model.AssignmentAll, 40))
		assert.ErrorContains(t, err, "write assignments")

		survey := store.surveys[42]
		assert.Equal(t, model.EvaluationClass, survey.EvaluationType)
		assert.Equal(t, 100.0, survey.StudentPercentage)
		assert.Nil(t, survey.OfficeID)
		assert.Equal(t, students, store.memberIDs(model.RelationStudents))
		assert.Equal(t, []uint{10}, store.memberIDs(model.RelationClasses))
	})
}

func TestLoadSnapshot(t *testing.T) {
	store := seededStore()
	store.junctions[model.RelationClasses] = []model.AssignmentEntry{{JunctionID: 1, MemberID: 10}, {JunctionID: 2, MemberID: 10}}
	store.junctions[model.RelationStudents] = []model.AssignmentEntry{{JunctionID: 3, MemberID: 1}}
	svc := NewSurveyEvaluationService(store, nil)

	snap, err := svc.LoadSnapshot(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, snap.Classes, 3)
	assert.Nil(t, snap.Students, "students are only loaded for office surveys")
	assert.Equal(t, []uint{10}, snap.ClassMap.MemberIDs())
	assert.Equal(t, 1, snap.StudentMap.Len())

	store.failOn = "responses"
	_, err = svc.LoadSnapshot(context.Background(), 42)
	assert.ErrorContains(t, err, "responses failed")

	_, err = svc.LoadSnapshot(context.Background(), 1)
	assert.ErrorIs(t, err, util.ErrSurveyNotFound)
}

func TestReports_ThroughService(t *testing.T) {
	store := seededStore()
	svc := NewSurveyEvaluationService(store, nil)
	ctx := context.Background()

	_, err := svc.SaveSurvey(ctx, 42, classRequest(100, 10, 11))
	require.NoError(t, err)
	store.responses = []model.StudentSurveyResponse{
		classResponse(1, 10, answer(100, "4")),
		classResponse(2, 11, answer(100, "2")),
	}
	store.surveys[42].QuestionGroups = []model.StudentSurveyGroup{
		group("Teaching", model.ResponseStyleRating, question(100, "Explains clearly")),
	}

	overview, err := svc.Overview(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 30, overview.TotalExpectedStudents)
	assert.Equal(t, 28, overview.PendingResponses)

	report, err := svc.InstructorReport(ctx, 42, 5)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 30, report.TotalStudents)
	assert.InDelta(t, 3.0, report.OverallAverage, 1e-9)

	missing, err := svc.InstructorReport(ctx, 42, 77)
	require.NoError(t, err)
	assert.Nil(t, missing)

	office, err := svc.OfficeReport(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, office)

	summaries, err := svc.Instructors(ctx, 42)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].ClassCount)

	levels, err := svc.YearLevelBreakdown(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, levels[model.UnknownYearLevel].Responses, 2)
}
