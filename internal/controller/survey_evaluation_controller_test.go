package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"survegio_backend/internal/model"
	"survegio_backend/internal/service"
	"survegio_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore 单个问卷的内存数据源
type memStore struct {
	survey    *model.StudentEvaluationSurvey
	classes   []model.Class
	responses []model.StudentSurveyResponse
	junctions map[string][]model.AssignmentEntry
	nextID    uint
}

func (m *memStore) FetchSurveyConfig(_ context.Context, id uint) (*model.StudentEvaluationSurvey, error) {
	if m.survey == nil || m.survey.ID != id {
		return nil, util.ErrSurveyNotFound
	}
	cp := *m.survey
	return &cp, nil
}

func (m *memStore) FetchAssignmentMapping(_ context.Context, _ uint, relation string) ([]model.AssignmentEntry, error) {
	return m.junctions[relation], nil
}

func (m *memStore) SaveSurvey(_ context.Context, _ uint, settings model.SurveySettings, writes ...model.AssignmentWrite) error {
	settings.Apply(m.survey)
	for _, w := range writes {
		entries := append([]model.AssignmentEntry(nil), w.Entries...)
		for i := range entries {
			if entries[i].JunctionID == 0 {
				m.nextID++
				entries[i].JunctionID = m.nextID
			}
		}
		m.junctions[w.Relation] = entries
	}
	return nil
}

func (m *memStore) FetchResponses(context.Context, uint) ([]model.StudentSurveyResponse, error) {
	return m.responses, nil
}

func (m *memStore) FetchStudents(context.Context) ([]model.Student, error) { return nil, nil }
func (m *memStore) FetchEligibleStudents(context.Context) ([]uint, error) { return nil, nil }
func (m *memStore) FetchAcademicTerms(context.Context) ([]model.AcademicTerm, error) { return nil, nil }
func (m *memStore) FetchSchoolOffices(context.Context) ([]model.SchoolOffice, error) { return nil, nil }
func (m *memStore) FetchDepartments(context.Context) ([]model.Department, error) { return nil, nil }

func (m *memStore) FetchStudentsInDepartments(context.Context, []uint) ([]uint, error) {
	return nil, nil
}

func (m *memStore) FetchClasses(_ context.Context, ids []uint) ([]model.Class, error) {
	if len(ids) == 0 {
		return m.classes, nil
	}
	var out []model.Class
	for _, c := range m.classes {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func newTestStore() *memStore {
	survey := &model.StudentEvaluationSurvey{
		Title:          "Midterm",
		EvaluationType: model.EvaluationClass,
		QuestionGroups: []model.StudentSurveyGroup{{
			Title:         "Teaching",
			ResponseStyle: model.ResponseStyleRating,
			Questions:     []model.StudentQuestion{{BaseModel: model.BaseModel{ID: 100}, Question: "Explains clearly"}},
		}},
	}
	survey.ID = 1

	tch := &model.Teacher{FirstName: "Ana", LastName: "Reyes"}
	tch.ID = 5
	cls := model.Class{Section: "A", TeacherID: &tch.ID, Teacher: tch}
	cls.ID = 10
	for _, sid := range []uint{1, 2, 3, 4} {
		cls.Students = append(cls.Students, model.ClassStudent{ClassID: 10, StudentID: sid})
	}

	classID := uint(10)
	resp := model.StudentSurveyResponse{SurveyID: 1, ClassID: &classID, Answers: []model.SurveyAnswer{{QuestionID: 100, AnswerValue: "4"}}}

	return &memStore{
		survey:    survey,
		classes:   []model.Class{cls},
		responses: []model.StudentSurveyResponse{resp},
		junctions: make(map[string][]model.AssignmentEntry),
	}
}

func newTestRouter(t *testing.T, store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	evaluations := service.NewSurveyEvaluationService(store, nil)
	exports := service.NewReportExportService(evaluations, &service.LocalStorageProvider{Root: t.TempDir()}, "reports")
	c := NewSurveyEvaluationController(evaluations, exports)

	r := gin.New()
	g := r.Group("/api/dean/surveys/:id")
	g.GET("/evaluation", c.GetEvaluation)
	g.PUT("/evaluation", c.SaveEvaluation)
	g.GET("/stats", c.GetQuestionStats)
	g.GET("/instructors", c.ListInstructors)
	g.GET("/instructors/:instructorId/report", c.GetInstructorReport)
	g.GET("/office-report", c.GetOfficeReport)
	g.POST("/reports/export", c.ExportReport)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSaveThenReport(t *testing.T) {
	store := newTestStore()
	r := newTestRouter(t, store)

	w, resp := doJSON(r, http.MethodPut, "/api/dean/surveys/1/evaluation", map[string]interface{}{
		"title":              "Midterm",
		"evaluation_type":    "Class",
		"assignment_mode":    "all",
		"student_percentage": 50,
		"class_ids":          []uint{10},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["selectedCount"])

	w, resp = doJSON(r, http.MethodGet, "/api/dean/surveys/1/evaluation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), overview["totalExpectedStudents"])
	assert.Equal(t, float64(1), overview["pendingResponses"])

	w, resp = doJSON(r, http.MethodGet, "/api/dean/surveys/1/instructors/5/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := resp.Data.(map[string]interface{})
	assert.Equal(t, "Ana Reyes", report["instructorName"])
	assert.Equal(t, float64(25), report["responseRate"])

	w, resp = doJSON(r, http.MethodPost, "/api/dean/surveys/1/reports/export", map[string]interface{}{"kind": "instructor", "instructorId": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, resp.Data.(map[string]interface{})["url"], "/exports/reports/1/instructor-")
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t, newTestStore())

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"bad id", http.MethodGet, "/api/dean/surveys/abc/evaluation", nil, http.StatusBadRequest},
		{"unknown survey", http.MethodGet, "/api/dean/surveys/9/stats", nil, http.StatusNotFound},
		{"no classes for instructor", http.MethodGet, "/api/dean/surveys/1/instructors/77/report", nil, http.StatusNotFound},
		{"office report on class survey", http.MethodGet, "/api/dean/surveys/1/office-report", nil, http.StatusNotFound},
		{"invalid evaluation type", http.MethodPut, "/api/dean/surveys/1/evaluation",
			map[string]interface{}{"evaluation_type": "Dorm", "assignment_mode": "all"}, http.StatusBadRequest},
		{"invalid survey status", http.MethodPut, "/api/dean/surveys/1/evaluation",
			map[string]interface{}{"evaluation_type": "Class", "assignment_mode": "all", "is_active": "Closed"}, http.StatusBadRequest},
		{"invalid report kind", http.MethodPost, "/api/dean/surveys/1/reports/export",
			map[string]interface{}{"kind": "pdf"}, http.StatusBadRequest},
		{"missing report kind", http.MethodPost, "/api/dean/surveys/1/reports/export",
			map[string]interface{}{}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doJSON(r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
