package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/version"
	"go.uber.org/zap"
)

var endpoints = gin.H{
	"lottery":      "/api/lottery",
	"lotteryData":  "/api/lottery/data",
	"am":           "/api/lottery/am",
	"pm":           "/api/lottery/pm",
	"additional":   "/api/lottery/additional",
	"liveNumber":   "/api/lottery/live",
	"weekly":       "/api/lottery/weekly",
	"weeklyByDate": "/api/lottery/weekly/:date (e.g., 04/Nov/2025)",
	"threeD":       "/api/lottery/3d",
	"threeDByDate": "/api/lottery/3d/:date (e.g., 01/Nov/2025)",
}

var availableRoutes = []string{
	"GET /",
	"GET /api/lottery",
	"GET /api/lottery/data",
	"GET /api/lottery/am",
	"GET /api/lottery/pm",
	"GET /api/lottery/additional",
	"GET /api/lottery/live",
	"GET /api/lottery/weekly",
	"GET /api/lottery/weekly/:date",
	"GET /api/lottery/3d",
	"GET /api/lottery/3d/:date",
}

const noDataMessage = "No data available yet"

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "My Lucky 2D 3D API",
		"version":       version.Version,
		"endpoints":     endpoints,
		"documentation": "Visit endpoints for lottery data",
	})
}

func (s *Server) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success":         false,
		"message":         "Route not found",
		"availableRoutes": availableRoutes,
	})
}

func (s *Server) fail(c *gin.Context, d storage.Dataset, err error) {
	s.logger.Error("read document failed", zap.String("dataset", string(d)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

func (s *Server) read(c *gin.Context, d storage.Dataset) (storage.Document, bool) {
	doc, err := s.store.Read(c.Request.Context(), d)
	if err != nil {
		s.fail(c, d, err)
		return storage.Document{}, false
	}
	return doc, true
}

// withDocument spreads doc's fields into a success response.
func withDocument(doc storage.Document) gin.H {
	h := gin.H{
		"success":     true,
		"lastUpdated": doc.LastUpdated,
		"data":        doc.Data,
	}
	if doc.TotalRecords != nil {
		h["totalRecords"] = *doc.TotalRecords
	}
	if doc.Message != "" {
		h["message"] = doc.Message
	}
	return h
}

func (s *Server) daily(c *gin.Context) {
	if doc, ok := s.read(c, storage.Daily); ok {
		c.JSON(http.StatusOK, withDocument(doc))
	}
}

func (s *Server) dailyData(c *gin.Context) {
	if doc, ok := s.read(c, storage.Daily); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": doc.Data})
	}
}

// dailyFields decodes the daily record into its top level fields. ok is
// false when nothing was scraped yet.
func (s *Server) dailyFields(c *gin.Context) (storage.Document, map[string]json.RawMessage, bool) {
	doc, ok := s.read(c, storage.Daily)
	if !ok {
		return doc, nil, false
	}
	if !doc.Populated() {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": noDataMessage})
		return doc, nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		s.fail(c, storage.Daily, fmt.Errorf("decode daily record: %w", err))
		return doc, nil, false
	}
	return doc, fields, true
}

func (s *Server) dailyField(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, fields, ok := s.dailyFields(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			name:          fields[name],
			"lastUpdated": doc.LastUpdated,
		})
	}
}

func (s *Server) live(c *gin.Context) {
	doc, fields, ok := s.dailyFields(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"liveNumber":  fields["liveNumber"],
		"title":       fields["title"],
		"date":        fields["date"],
		"updatedTime": fields["updatedTime"],
		"lastUpdated": doc.LastUpdated,
	})
}

func (s *Server) list(d storage.Dataset) gin.HandlerFunc {
	return func(c *gin.Context) {
		if doc, ok := s.read(c, d); ok {
			c.JSON(http.StatusOK, withDocument(doc))
		}
	}
}

func (s *Server) weeklyByDate(c *gin.Context) {
	s.byDate(c, storage.Weekly, "No weekly data available yet", "No data found for date: %s")
}

func (s *Server) threeDByDate(c *gin.Context) {
	s.byDate(c, storage.ThreeD, "No 3D data available yet", "No 3D data found for date: %s")
}

// byDate looks up the record whose date equals the path parameter. Dates
// contain slashes, so the parameter is a catch-all.
func (s *Server) byDate(c *gin.Context, d storage.Dataset, emptyMessage, notFoundFormat string) {
	date := strings.Trim(c.Param("date"), "/")
	if date == "" {
		s.list(d)(c)
		return
	}

	doc, ok := s.read(c, d)
	if !ok {
		return
	}

	var items []json.RawMessage
	if doc.Populated() {
		if err := json.Unmarshal(doc.Data, &items); err != nil {
			s.fail(c, d, fmt.Errorf("decode %s records: %w", d, err))
			return
		}
	}
	if len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": emptyMessage})
		return
	}

	for _, item := range items {
		var key struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(item, &key); err != nil {
			continue
		}
		if key.Date == date {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": item, "lastUpdated": doc.LastUpdated})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": fmt.Sprintf(notFoundFormat, date)})
}
