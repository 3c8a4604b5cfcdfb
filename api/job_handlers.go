package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	job, err := api.engine.GetJob(c.Param("jobId"))
	if err != nil {
		SendEngineError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, optionally filtered with ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.engine.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// CancelJobHandler asks a queued or running job to stop
func (api *API) CancelJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	if err := api.engine.CancelJob(jobID); err != nil {
		if stderrors.Is(err, errors.ErrJobNotFound) {
			SendEngineError(c, "cancel job", err)
			return
		}
		SendError(c, http.StatusConflict, ErrorCodeJobNotActive, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "cancelling",
		"message": "Cancellation requested for job '" + jobID + "'",
		"job_id":  jobID,
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	metrics := api.engine.JobMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":          metrics,
		"success_rate":     metrics.SuccessRate,
		"current_workload": metrics.CurrentWorkload,
	})
}
