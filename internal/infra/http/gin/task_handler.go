package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	tasksapp "teamdesk/internal/app/handlers/tasks"
	"teamdesk/internal/app/queries"
	domaintask "teamdesk/internal/domain/task"
)

type TaskHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeIDs []string   `json:"assignee_ids"`
	WatcherIDs  []string   `json:"watcher_ids"`
	Checklist   []string   `json:"checklist"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *int       `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type setTaskStatusRequest struct {
	Status string `json:"status"`
}

type setTaskPriorityRequest struct {
	Priority int `json:"priority"`
}

func (h TaskHandler) List(c *gin.Context) {
	q := tasksapp.ListTasksQuery{
		CallerID: callerID(c),
		Params:   parseListParams(c, domaintask.Fields()),
	}
	result, err := queries.Ask[tasksapp.ListTasksQuery, dto.TaskCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tasksapp.CreateTaskCommand{
		CallerID:    callerID(c),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
		WatcherIDs:  req.WatcherIDs,
		Checklist:   req.Checklist,
	}
	task, err := commands.Dispatch[tasksapp.CreateTaskCommand, *dto.Task](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h TaskHandler) Get(c *gin.Context) {
	q := tasksapp.GetTaskQuery{CallerID: callerID(c), TaskID: c.Param("id")}
	task, err := queries.Ask[tasksapp.GetTaskQuery, dto.Task](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tasksapp.UpdateTaskCommand{
		CallerID: callerID(c),
		TaskID:   c.Param("id"),
		Fields: domaintask.UpdateFields{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Priority:    req.Priority,
			DueDate:     req.DueDate,
		},
	}
	task, err := commands.Dispatch[tasksapp.UpdateTaskCommand, *dto.Task](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h TaskHandler) Delete(c *gin.Context) {
	cmd := tasksapp.DeleteTaskCommand{CallerID: callerID(c), TaskID: c.Param("id")}
	result, err := commands.Dispatch[tasksapp.DeleteTaskCommand, *tasksapp.DeleteTaskResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TaskHandler) SetStatus(c *gin.Context) {
	var req setTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tasksapp.SetTaskStatusCommand{CallerID: callerID(c), TaskID: c.Param("id"), Status: req.Status}
	task, err := commands.Dispatch[tasksapp.SetTaskStatusCommand, *dto.Task](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h TaskHandler) SetPriority(c *gin.Context) {
	var req setTaskPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tasksapp.SetTaskPriorityCommand{CallerID: callerID(c), TaskID: c.Param("id"), Priority: req.Priority}
	task, err := commands.Dispatch[tasksapp.SetTaskPriorityCommand, *dto.Task](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
