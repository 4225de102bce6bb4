package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
)

// listParams are the query parameters a list screen accepts. Absent
// parameters leave the current view state alone.
type listParams struct {
	Page       *int    `form:"page" binding:"omitempty,min=1"`
	PageSize   *int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Status     *string `form:"status" binding:"omitempty,max=50"`
	Responded  *string `form:"responded" binding:"omitempty,max=8"`
	Search     *string `form:"search" binding:"omitempty,max=200"`
	DateFilter *string `form:"date_filter"`
	DateFrom   string  `form:"date_from"`
	DateTo     string  `form:"date_to"`
	Refresh    bool    `form:"refresh"`
}

type sortRequest struct {
	Column string `json:"column" binding:"required,max=50"`
}

type selectRequest struct {
	ID string `json:"id" binding:"required,max=64"`
}

// listScreen serves the list, sort and selection routes of one resource.
type listScreen[T models.Row] struct {
	route      string
	controller func(*console.Workspace) *listview.Controller[T]
}

// Show applies the query parameters, waits for the resulting fetch and
// returns the view.
func (s listScreen[T]) Show(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	ws.Navigator.Navigate(s.route)
	list := s.controller(ws)

	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	changed, err := applyParams(list, params)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if !changed && (params.Refresh || !list.View().Loaded) {
		list.Refresh()
	}

	s.respondView(c, list)
}

func applyParams[T models.Row](list *listview.Controller[T], p listParams) (bool, error) {
	before := list.Query()

	if p.DateFilter != nil {
		f := models.DateFilter{Preset: models.DatePreset(*p.DateFilter), From: p.DateFrom, To: p.DateTo}
		if err := list.SetDateFilter(f); err != nil {
			return false, err
		}
	}
	if p.PageSize != nil {
		list.SetPageSize(*p.PageSize)
	}
	if p.Status != nil {
		list.SetStatus(*p.Status)
	}
	if p.Responded != nil {
		if err := list.SetResponded(*p.Responded); err != nil {
			return false, err
		}
	}
	if p.Search != nil {
		list.SetSearch(*p.Search)
		list.CommitSearch()
	}
	if p.Page != nil {
		list.SetPage(*p.Page)
	}
	return list.Query() != before, nil
}

func (s listScreen[T]) respondView(c *gin.Context, list *listview.Controller[T]) {
	if err := list.Wait(c.Request.Context()); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			redirectToLogin(c, err)
			return
		}
		// The view carries the error; the previous page stays visible.
		attachError(c, err)
	}
	c.JSON(http.StatusOK, list.View())
}

// Sort cycles the sort direction of a column. Sorting is client-side and
// never refetches.
func (s listScreen[T]) Sort(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list := s.controller(ws)
	list.Sort(req.Column)
	c.JSON(http.StatusOK, list.View())
}

func (s listScreen[T]) Select(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list := s.controller(ws)
	if !list.ToggleRow(req.ID) {
		respondError(c, http.StatusNotFound, "Row is not on the current page", nil)
		return
	}
	c.JSON(http.StatusOK, list.View())
}

func (s listScreen[T]) SelectAll(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	list := s.controller(ws)
	list.ToggleSelectAll()
	c.JSON(http.StatusOK, list.View())
}

func (s listScreen[T]) ClearSelection(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	list := s.controller(ws)
	list.ClearSelection()
	c.JSON(http.StatusOK, list.View())
}

// respondBulk answers a bulk action with its summary. Partial failures are
// still a 200; the summary message is the operator notice.
func respondBulk(c *gin.Context, ws *console.Workspace, summary bulk.Summary, err error) {
	if errors.Is(err, bulk.ErrNothingSelected) {
		respondError(c, http.StatusBadRequest, "Select at least one row", err)
		return
	}
	if err != nil {
		respondServiceError(c, err, "Bulk action failed")
		return
	}
	if signedOut(c, ws) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": summary.OK(),
		"summary": summary,
		"message": summary.Message,
	})
}

// respondWrite answers a single-record write.
func respondWrite(c *gin.Context, err error, message, fallback string) {
	if err != nil {
		respondServiceError(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
