package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/reports"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

type ReportsController struct {
	builder  *reports.Builder
	settings *settingsstore.Store
	auditor  Auditor
}

func NewReportsController(builder *reports.Builder, settings *settingsstore.Store, auditor Auditor) *ReportsController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &ReportsController{builder: builder, settings: settings, auditor: auditor}
}

func (rc *ReportsController) build(c *gin.Context) (*reports.Report, bool) {
	period, err := reports.ParsePeriod(c.Query("period"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return nil, false
	}
	report, err := rc.builder.Build(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownPeriod) {
			respondBadRequest(c, err.Error())
			return nil, false
		}
		respondResourceError(c, err)
		return nil, false
	}
	return report, true
}

// Financial handles GET /api/admin/reports/financial?period=
func (rc *ReportsController) Financial(c *gin.Context) {
	report, ok := rc.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "lines": report.Lines()})
}

// ExportCSV handles GET /api/admin/reports/financial/export.csv?period=
func (rc *ReportsController) ExportCSV(c *gin.Context) {
	report, ok := rc.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := reports.WriteCSV(&buf, report)
	rc.auditor.LogExport(actor(c), "csv", string(report.Period), err)
	if err != nil {
		respondInternalError(c, err, "csv export")
		return
	}
	rc.attach(c, reports.Filename(report.Period, report.GeneratedAt, "csv"), "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF handles GET /api/admin/reports/financial/export.pdf?period=
func (rc *ReportsController) ExportPDF(c *gin.Context) {
	report, ok := rc.build(c)
	if !ok {
		return
	}

	siteName := settingsstore.Defaults().SiteName
	if rc.settings != nil {
		siteName = rc.settings.LoadPublic(c.Request.Context()).SiteName
	}

	var buf bytes.Buffer
	err := reports.WritePDF(&buf, report, siteName)
	rc.auditor.LogExport(actor(c), "pdf", string(report.Period), err)
	if err != nil {
		respondInternalError(c, err, "pdf export")
		return
	}
	rc.attach(c, reports.Filename(report.Period, report.GeneratedAt, "pdf"), "application/pdf", buf.Bytes())
}

func (rc *ReportsController) attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
