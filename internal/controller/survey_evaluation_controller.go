package controller

import (
	"errors"
	"net/http"

	"survegio_backend/internal/service"
	"survegio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SurveyEvaluationController struct {
	evaluations *service.SurveyEvaluationService
	exports     *service.ReportExportService
}

func NewSurveyEvaluationController(evaluations *service.SurveyEvaluationService, exports *service.ReportExportService) *SurveyEvaluationController {
	return &SurveyEvaluationController{evaluations: evaluations, exports: exports}
}

func surveyID(ctx *gin.Context) (uint, bool) {
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid survey id")
		return 0, false
	}
	return id, true
}

// respondError 业务错误映射为 HTTP 状态码，其余记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSurveyNotFound), errors.Is(err, util.ErrReportNotAvailable):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidEvaluationType),
		errors.Is(err, util.ErrInvalidAssignmentMode),
		errors.Is(err, util.ErrInvalidSurveyStatus),
		errors.Is(err, util.ErrInvalidReportKind):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSaveInProgress):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrStorageNotConfigured):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetEvaluation godoc
// @Summary 问卷评估概览
// @Description 已分配人数、预期人数、已回收与待回收数量
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.EvaluationOverview}
// @Failure 404 {object} util.Response
// @Router /api/dean/surveys/{id}/evaluation [get]
func (c *SurveyEvaluationController) GetEvaluation(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	overview, err := c.evaluations.Overview(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// SaveEvaluation godoc
// @Summary 保存问卷设置并同步分配
// @Description 按比例确定性抽样学生，只增删发生变化的关联记录
// @Tags 问卷评估
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param body body service.SaveSurveyRequest true "问卷设置与选择"
// @Success 200 {object} util.Response{data=service.SaveResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/dean/surveys/{id}/evaluation [put]
func (c *SurveyEvaluationController) SaveEvaluation(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	var req service.SaveSurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.evaluations.SaveSurvey(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetQuestionStats godoc
// @Summary 逐题统计
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=[]model.QuestionStats}
// @Router /api/dean/surveys/{id}/stats [get]
func (c *SurveyEvaluationController) GetQuestionStats(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	stats, err := c.evaluations.QuestionStats(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetYearLevels godoc
// @Summary 按年级分组的答卷
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=map[string]model.ResponseGroup}
// @Router /api/dean/surveys/{id}/year-levels [get]
func (c *SurveyEvaluationController) GetYearLevels(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	groups, err := c.evaluations.YearLevelBreakdown(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// ListInstructors godoc
// @Summary 教师概览
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=[]model.InstructorSummary}
// @Router /api/dean/surveys/{id}/instructors [get]
func (c *SurveyEvaluationController) ListInstructors(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	summaries, err := c.evaluations.Instructors(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetInstructorReport godoc
// @Summary 教师评估报表
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param instructorId path int true "教师ID"
// @Success 200 {object} util.Response{data=model.InstructorReportData}
// @Failure 404 {object} util.Response
// @Router /api/dean/surveys/{id}/instructors/{instructorId}/report [get]
func (c *SurveyEvaluationController) GetInstructorReport(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}
	instructorID, err := util.ParseID(ctx.Param("instructorId"))
	if err != nil {
		util.BadRequest(ctx, "invalid instructor id")
		return
	}

	report, err := c.evaluations.InstructorReport(ctx.Request.Context(), id, instructorID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if report == nil {
		util.NotFound(ctx, "no assigned classes for this instructor")
		return
	}
	util.Success(ctx, report)
}

// GetOfficeReport godoc
// @Summary 部门评估报表
// @Tags 问卷评估
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.OfficeReportData}
// @Failure 404 {object} util.Response
// @Router /api/dean/surveys/{id}/office-report [get]
func (c *SurveyEvaluationController) GetOfficeReport(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	report, err := c.evaluations.OfficeReport(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if report == nil {
		util.NotFound(ctx, "office report not found")
		return
	}
	util.Success(ctx, report)
}

// ExportReport godoc
// @Summary 导出报表为 JSON 文件
// @Tags 问卷评估
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param body body service.ExportRequest true "报表类型"
// @Success 201 {object} util.Response{data=service.ExportResult}
// @Failure 404 {object} util.Response
// @Router /api/dean/surveys/{id}/reports/export [post]
func (c *SurveyEvaluationController) ExportReport(ctx *gin.Context) {
	id, ok := surveyID(ctx)
	if !ok {
		return
	}

	var req service.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.exports.ExportReport(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
