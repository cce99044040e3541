package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focus-tracker/internal/service"
)

type assignRequest struct {
	TaskID     uint   `json:"task_id" binding:"required"`
	AssignedBy string `json:"assigned_by"`
}

type sessionRequest struct {
	TaskID          *uint `json:"task_id"`
	DurationMinutes int   `json:"duration_minutes"`
}

// Tasks

func (s *Server) handleCreateTask(c *gin.Context) {
	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.svc.Tasks.CreateTask(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.Tasks.ListTree(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks, "count": len(tasks)})
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	task, err := s.svc.Tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var patch service.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.svc.Tasks.UpdateTask(c.Request.Context(), id, patch); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "message": "Task updated"})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := s.svc.Tasks.DeleteTask(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	completed, err := s.svc.Tasks.ToggleCompletion(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id, "is_completed": completed}})
}

// Days

func (s *Server) handleInitDays(c *gin.Context) {
	if err := s.svc.Tracker.InitializeDays(c.Request.Context(), s.now()); err != nil {
		fail(c, err)
		return
	}
	days, err := s.svc.Tracker.ListDays(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": days, "count": len(days)})
}

func (s *Server) handleListDays(c *gin.Context) {
	days, err := s.svc.Tracker.ListDays(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": days, "count": len(days)})
}

func (s *Server) handleAssignTask(c *gin.Context) {
	day, ok := intParam(c, "day")
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	record, err := s.svc.Tracker.AssignTask(c.Request.Context(), req.TaskID, day, req.AssignedBy)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": record})
}

func (s *Server) handleRefreshDay(c *gin.Context) {
	day, ok := intParam(c, "day")
	if !ok {
		return
	}

	record, err := s.svc.Tracker.RefreshDay(c.Request.Context(), day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": record})
}

func (s *Server) handleDayTasks(c *gin.Context) {
	day, ok := intParam(c, "day")
	if !ok {
		return
	}

	tasks, err := s.svc.Tracker.TasksForDay(c.Request.Context(), day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks, "count": len(tasks)})
}

// Sessions

func (s *Server) handleStartSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = s.sessionMinutes
	}

	session, err := s.svc.Focus.StartSession(c.Request.Context(), req.TaskID, req.DurationMinutes, s.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": session})
}

func (s *Server) handleCompleteSession(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	stats, err := s.svc.Focus.CompleteSession(c.Request.Context(), id, s.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (s *Server) handleHistory(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(service.DefaultHistoryDays)))
	if err != nil {
		badRequest(c, fmt.Errorf("days must be a number"))
		return
	}

	sessions, err := s.svc.Focus.History(c.Request.Context(), days, s.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sessions, "count": len(sessions)})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.svc.Focus.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// Helpers

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(v), true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

// fail maps service errors onto HTTP status codes.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
