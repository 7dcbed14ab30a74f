package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	contactsapp "teamdesk/internal/app/handlers/contacts"
	"teamdesk/internal/app/queries"
	domaincontact "teamdesk/internal/domain/contact"
)

type ContactHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createContactRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Rank        string `json:"rank"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	AvatarURL   string `json:"avatar_url"`
	DateOfBirth string `json:"date_of_birth"`
	Locale      string `json:"locale"`
	Timezone    string `json:"timezone"`
}

type updateContactRequest struct {
	Username      *string `json:"username"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	DisplayName   *string `json:"display_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	IsOnline      *bool   `json:"is_online"`
	StatusMessage *string `json:"status_message"`
	Role          *string `json:"role"`
	Department    *string `json:"department"`
	Rank          *string `json:"rank"`
	Position      *string `json:"position"`
	Company       *string `json:"company"`
	AvatarURL     *string `json:"avatar_url"`
	DateOfBirth   *string `json:"date_of_birth"`
	Locale        *string `json:"locale"`
	Timezone      *string `json:"timezone"`
}

func (h ContactHandler) List(c *gin.Context) {
	q := contactsapp.ListContactsQuery{
		CallerID: callerID(c),
		Params:   parseListParams(c, domaincontact.Fields()),
	}
	result, err := queries.Ask[contactsapp.ListContactsQuery, dto.ContactCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := contactsapp.CreateContactCommand{
		CallerID:    callerID(c),
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		Department:  req.Department,
		Rank:        req.Rank,
		Position:    req.Position,
		Company:     req.Company,
		AvatarURL:   req.AvatarURL,
		DateOfBirth: req.DateOfBirth,
		Locale:      req.Locale,
		Timezone:    req.Timezone,
	}
	contact, err := commands.Dispatch[contactsapp.CreateContactCommand, *dto.Contact](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h ContactHandler) Get(c *gin.Context) {
	q := contactsapp.GetContactQuery{CallerID: callerID(c), ContactID: c.Param("id")}
	contact, err := queries.Ask[contactsapp.GetContactQuery, dto.Contact](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h ContactHandler) Update(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := contactsapp.UpdateContactCommand{
		CallerID:  callerID(c),
		ContactID: c.Param("id"),
		Fields: domaincontact.UpdateFields{
			Username:      req.Username,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			DisplayName:   req.DisplayName,
			Email:         req.Email,
			Phone:         req.Phone,
			IsOnline:      req.IsOnline,
			StatusMessage: req.StatusMessage,
			Role:          req.Role,
			Department:    req.Department,
			Rank:          req.Rank,
			Position:      req.Position,
			Company:       req.Company,
			AvatarURL:     req.AvatarURL,
			DateOfBirth:   req.DateOfBirth,
			Locale:        req.Locale,
			Timezone:      req.Timezone,
		},
	}
	contact, err := commands.Dispatch[contactsapp.UpdateContactCommand, *dto.Contact](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h ContactHandler) Delete(c *gin.Context) {
	cmd := contactsapp.DeleteContactCommand{CallerID: callerID(c), ContactID: c.Param("id")}
	result, err := commands.Dispatch[contactsapp.DeleteContactCommand, *contactsapp.DeleteContactResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
