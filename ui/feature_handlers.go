package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	apperrors "featurecard/internal/errors"
)

const jsonContentType = "application/json; charset=utf-8"

// handleFeatureInfo serves get_feature_info for one column.
func (s *Server) handleFeatureInfo(c *gin.Context) {
	key, ok := s.bindKey(c)
	if !ok {
		return
	}
	payload, err := s.features.FeatureInfoJSON(c.Request.Context(), key)
	if err != nil {
		s.respondError(c, key, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, payload)
}

// handleStackedData serves get_stacked_data; target defaults to the
// configured target column.
func (s *Server) handleStackedData(c *gin.Context) {
	key, ok := s.bindKey(c)
	if !ok {
		return
	}
	target := c.DefaultQuery("target", s.features.Target())
	payload, err := s.features.StackedDataJSON(c.Request.Context(), key, target)
	if err != nil {
		s.respondError(c, key, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, payload)
}

// bindKey reads the file id and the column query parameter, answering 400
// when the column is missing.
func (s *Server) bindKey(c *gin.Context) (feature.Key, bool) {
	column := c.Query("column")
	if column == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column query parameter is required"})
		return feature.Key{}, false
	}
	key, err := feature.NewKey(c.Param("fileId"), column)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return feature.Key{}, false
	}
	return key, true
}

func (s *Server) respondError(c *gin.Context, key feature.Key, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("%s %s: %v", c.Request.URL.Path, key, err)
	}
	body := gin.H{"error": err.Error()}
	if apperrors.IsAppError(err) {
		body["code"] = apperrors.GetCode(err)
	}
	c.JSON(status, body)
}

// statusFor maps a feature failure onto an HTTP status: missing file or
// column is 404, anything else is a server error.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
