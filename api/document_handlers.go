package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/model"
)

// DocumentRequest is the body of a document registration. Name and Extension
// default to the base name and extension of Path.
type DocumentRequest struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Text      string `json:"text"`
}

func (r DocumentRequest) toDocument() model.Document {
	return model.Document{
		Meta: model.DocumentMeta{ID: r.ID, Path: r.Path, Name: r.Name, Extension: r.Extension},
		Text: r.Text,
	}
}

// decodeDocuments accepts a single document object or an array of them.
func decodeDocuments(body []byte) ([]model.Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	var requests []DocumentRequest
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, err
		}
	case '{':
		var single DocumentRequest
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}
		requests = []DocumentRequest{single}
	default:
		return nil, fmt.Errorf("expecting a document object or an array of documents")
	}

	docs := make([]model.Document, len(requests))
	for i, req := range requests {
		docs[i] = req.toDocument()
	}
	return docs, nil
}

// AddDocumentsHandler registers documents. With ?async=true the documents are
// added by a background job and the job ID is returned.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	docs, err := decodeDocuments(body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if c.Query("async") == "true" {
		jobID, err := api.engine.AddDocumentsAsync(docs)
		if err != nil {
			SendJobExecutionError(c, "add documents", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":         "accepted",
			"message":        fmt.Sprintf("Document addition started (%d documents)", len(docs)),
			"job_id":         jobID,
			"document_count": len(docs),
		})
		return
	}

	if err := api.engine.AddDocuments(c.Request.Context(), docs); err != nil {
		SendEngineError(c, "add documents", err)
		return
	}

	metas := make([]model.DocumentMeta, len(docs))
	for i, doc := range docs {
		metas[i] = doc.Meta
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   fmt.Sprintf("%d document(s) added", len(docs)),
		"documents": metas,
	})
}

// ListDocumentsHandler lists the metadata of every registered document
func (api *API) ListDocumentsHandler(c *gin.Context) {
	metas := api.engine.ListDocuments()
	c.JSON(http.StatusOK, gin.H{
		"documents": metas,
		"total":     len(metas),
	})
}

// GetDocumentHandler returns a document with its text
func (api *API) GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, err := api.engine.GetDocument(documentID)
	if err != nil {
		SendEngineError(c, "get document", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocumentHandler removes a document and its fingerprints
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteDocument(c.Request.Context(), documentID); err != nil {
		SendEngineError(c, "delete document", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted"})
}

// GetFingerprintsHandler returns the fingerprints of a registered document
func (api *API) GetFingerprintsHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	fingerprints, err := api.engine.Fingerprints(c.Request.Context(), documentID)
	if err != nil {
		SendEngineError(c, "fingerprint document", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id":  documentID,
		"signature":    api.engine.Settings().Signature(),
		"fingerprints": fingerprints,
		"total":        len(fingerprints),
	})
}
