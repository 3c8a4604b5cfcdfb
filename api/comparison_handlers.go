package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/model"
)

// FingerprintRequest fingerprints text that is not registered. Unset settings
// fall back to the engine's.
type FingerprintRequest struct {
	Text      string `json:"text"`
	Extension string `json:"extension"`
	config.FingerprintSettings
}

// FingerprintTextHandler fingerprints the text in the request body
func (api *API) FingerprintTextHandler(c *gin.Context) {
	var req FingerprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	fingerprints, err := api.engine.FingerprintText(req.Text, req.Extension, req.FingerprintSettings)
	if err != nil {
		SendEngineError(c, "fingerprint text", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fingerprints": fingerprints,
		"total":        len(fingerprints),
	})
}

// CompareHandler compares two registered documents.
// Request Body: model.ComparisonPair
func (api *API) CompareHandler(c *gin.Context) {
	var pair model.ComparisonPair
	if result := ValidateJSONBinding(c, &pair); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.engine.Compare(c.Request.Context(), pair.SourceID, pair.TargetID)
	if err != nil {
		SendEngineError(c, "compare", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompareBatchRequest lists the pairs of a batch comparison
type CompareBatchRequest struct {
	Pairs []model.ComparisonPair `json:"pairs"`
}

// CompareBatchHandler starts a background job comparing every pair.
// The per-pair outcomes are attached to the job.
func (api *API) CompareBatchHandler(c *gin.Context) {
	var req CompareBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateComparisonPairs(req.Pairs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.CompareBatchAsync(req.Pairs)
	if err != nil {
		SendJobExecutionError(c, "compare batch", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":     "accepted",
		"message":    fmt.Sprintf("Batch comparison started (%d pairs)", len(req.Pairs)),
		"job_id":     jobID,
		"pair_count": len(req.Pairs),
	})
}
