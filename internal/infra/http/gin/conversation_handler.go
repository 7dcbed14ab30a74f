package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	conversationsapp "teamdesk/internal/app/handlers/conversations"
	"teamdesk/internal/app/queries"
	domainconversation "teamdesk/internal/domain/conversation"
)

type ConversationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createConversationRequest struct {
	Name         string   `json:"name"`
	ContactIDs   []string `json:"contact_ids"`
	Category     string   `json:"category"`
	AvatarFileID string   `json:"avatar_file_id"`
}

type updateConversationRequest struct {
	Name         *string `json:"name"`
	AvatarFileID *string `json:"avatar_file_id"`
	Category     *string `json:"category"`
}

type addParticipantsRequest struct {
	ContactIDs []string `json:"contact_ids"`
}

type removeParticipantsRequest struct {
	ContactIDs []string `json:"contact_ids"`
}

func (h ConversationHandler) List(c *gin.Context) {
	q := conversationsapp.ListConversationsQuery{
		CallerID: callerID(c),
		Params:   parseListParams(c, domainconversation.Fields()),
	}
	result, err := queries.Ask[conversationsapp.ListConversationsQuery, dto.ConversationCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ConversationHandler) Create(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := conversationsapp.CreateConversationCommand{
		CallerID:     callerID(c),
		Name:         req.Name,
		ContactIDs:   req.ContactIDs,
		Category:     req.Category,
		AvatarFileID: req.AvatarFileID,
	}
	result, err := commands.Dispatch[conversationsapp.CreateConversationCommand, *conversationsapp.CreateConversationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	// Reusing an existing private chat is a successful lookup, not a create.
	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h ConversationHandler) Get(c *gin.Context) {
	q := conversationsapp.GetConversationQuery{CallerID: callerID(c), ConversationID: c.Param("id")}
	conv, err := queries.Ask[conversationsapp.GetConversationQuery, dto.Conversation](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h ConversationHandler) Update(c *gin.Context) {
	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := conversationsapp.UpdateConversationCommand{
		CallerID:       callerID(c),
		ConversationID: c.Param("id"),
		Fields: domainconversation.UpdateFields{
			Name:         req.Name,
			AvatarFileID: req.AvatarFileID,
			Category:     req.Category,
		},
	}
	conv, err := commands.Dispatch[conversationsapp.UpdateConversationCommand, *dto.Conversation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h ConversationHandler) Delete(c *gin.Context) {
	cmd := conversationsapp.DeleteConversationCommand{CallerID: callerID(c), ConversationID: c.Param("id")}
	result, err := commands.Dispatch[conversationsapp.DeleteConversationCommand, *conversationsapp.DeleteConversationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ConversationHandler) AddParticipants(c *gin.Context) {
	var req addParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := conversationsapp.AddParticipantsCommand{
		CallerID:       callerID(c),
		ConversationID: c.Param("id"),
		ContactIDs:     req.ContactIDs,
	}
	result, err := commands.Dispatch[conversationsapp.AddParticipantsCommand, *conversationsapp.AddParticipantsResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ConversationHandler) RemoveParticipants(c *gin.Context) {
	var req removeParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := conversationsapp.RemoveParticipantsCommand{
		CallerID:       callerID(c),
		ConversationID: c.Param("id"),
		ContactIDs:     req.ContactIDs,
	}
	result, err := commands.Dispatch[conversationsapp.RemoveParticipantsCommand, *conversationsapp.RemoveParticipantsResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
