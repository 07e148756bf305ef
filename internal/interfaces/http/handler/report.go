package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportapp "github.com/hostelhub/backend/internal/application/report"
	"github.com/hostelhub/backend/internal/domain/report"
)

// ReportQuery selects the encoding and filters of a report
type ReportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=json csv xlsx pdf"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,max=20"`
}

// ReportHandler renders and archives reports
type ReportHandler struct {
	BaseHandler
	service *reportapp.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *reportapp.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// Generate godoc
// @ID           generateReport
// @Summary      Generate a report
// @Description  json answers the table inline. csv, xlsx and pdf are sent as attachments.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        kind path string true "occupancy, payments, students or complaints"
// @Param        format query string false "json (default), csv, xlsx or pdf"
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        status query string false "Status filter"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/{kind} [get]
func (h *ReportHandler) Generate(c *gin.Context) {
	input, ok := h.input(c)
	if !ok {
		return
	}
	file, err := h.service.Generate(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if input.Format != "" && input.Format != report.FormatJSON {
		c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	}
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Archive godoc
// @ID           archiveReport
// @Summary      Generate a report into object storage
// @Description  Answers a time limited download link
// @Tags         reports
// @Produce      json
// @Param        kind path string true "occupancy, payments, students or complaints"
// @Param        format query string false "json (default), csv, xlsx or pdf"
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        status query string false "Status filter"
// @Success      201 {object} dto.Response{data=reportapp.ArchivedReport}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/{kind}/archive [post]
func (h *ReportHandler) Archive(c *gin.Context) {
	input, ok := h.input(c)
	if !ok {
		return
	}
	archived, err := h.service.Archive(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, archived)
}

func (h *ReportHandler) input(c *gin.Context) (reportapp.GenerateInput, bool) {
	var q ReportQuery
	if !h.bindQuery(c, &q) {
		return reportapp.GenerateInput{}, false
	}
	from, _ := optionalDate(q.From)
	to, _ := optionalDate(q.To)
	return reportapp.GenerateInput{
		Kind:   report.Kind(c.Param("kind")),
		Format: report.Format(q.Format),
		From:   from,
		To:     to,
		Status: q.Status,
	}, true
}
