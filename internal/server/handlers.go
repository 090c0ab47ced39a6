package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/internal/contract"
)

// dataset returns the generation pinned by CurrentDataset.
func dataset(c *gin.Context) *core.Dataset {
	return c.MustGet(contextDatasetKey).(*core.Dataset)
}

func respond(c *gin.Context, ds *core.Dataset, key string, payload any) {
	c.JSON(http.StatusOK, gin.H{"dataset": ds.Info(), key: payload})
}

// Query parameters are bound with gin. Months are optional YYYY-MM keys;
// limits and window sizes must be at least 1 when given.

type snapshotQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
	Limit *int   `form:"limit" binding:"omitempty,min=1"`
}

type rollingQuery struct {
	Month  string `form:"month" binding:"omitempty,datetime=2006-01"`
	Months *int   `form:"months" binding:"omitempty,min=1"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1"`
}

type compareQuery struct {
	Base   string `form:"base" binding:"omitempty,datetime=2006-01"`
	Target string `form:"target" binding:"omitempty,datetime=2006-01"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1"`
}

type locationQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}

type reportQuery struct {
	Month   string `form:"month" binding:"omitempty,datetime=2006-01"`
	Months  *int   `form:"months" binding:"omitempty,min=1"`
	Rolling bool   `form:"rolling"`
}

// bindQuery binds and validates query parameters, mapping failures to 400.
func bindQuery(c *gin.Context, query any) error {
	if err := c.ShouldBindQuery(query); err != nil {
		return invalidParam("query", err)
	}
	return nil
}

// orDefault returns the bound value, or fallback when the parameter was absent.
func orDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *Server) limit(v *int) int {
	return min(orDefault(v, s.cfg.ResultLimit), contract.MaxResultLimit)
}

func (s *Server) handleDataset(c *gin.Context) {
	ds := dataset(c)
	c.JSON(http.StatusOK, ds.Info())
}

func (s *Server) handleSnapshot(c *gin.Context) {
	var query snapshotQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ds := dataset(c)
	result, err := core.BuildSnapshot(ds, query.Month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	result.Records = algo.Limit(result.Records, s.limit(query.Limit))
	respond(c, ds, "snapshot", result)
}

func (s *Server) handleRolling(c *gin.Context) {
	var query rollingQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ds := dataset(c)
	result, err := core.RollingWindow(ds.Index, query.Month, orDefault(query.Months, s.cfg.Months), ds.Thresholds)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	result.Records = algo.Limit(result.Records, s.limit(query.Limit))
	respond(c, ds, "rolling", result)
}

func (s *Server) handleCompare(c *gin.Context) {
	var query compareQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ds := dataset(c)
	base, target, err := core.ResolveComparisonMonths(ds.Index, query.Base, query.Target)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	result, err := core.CompareMonths(ds.Index, base, target, s.limit(query.Limit))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, ds, "comparison", result)
}

func (s *Server) handleLocation(c *gin.Context) {
	var query locationQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ds := dataset(c)
	detail, err := core.DescribeLocation(ds, c.Param("name"), query.Month, s.cfg.AlertThresholds)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, ds, "location", detail)
}

func (s *Server) handleReport(c *gin.Context) {
	var query reportQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ds := dataset(c)
	report, _, err := core.BuildAnalysisReport(ds, query.Month, orDefault(query.Months, s.cfg.Months), query.Rolling)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, ds, "report", report)
}

func (s *Server) handleRefresh(c *gin.Context) {
	ds, err := s.Refresh(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header(HeaderGeneration, ds.Generation)
	c.JSON(http.StatusOK, gin.H{
		"dataset":   ds.Info(),
		"published": s.holder.Current() == ds,
	})
}
