package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString("user_email")
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	return c.GetStringSlice("user_roles")
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	return c.GetStringSlice("user_permissions")
}

// requireUser writes 401 and returns false when no user is on the context.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// parseID reads a uuid path parameter, answering 400 "Invalid <label> ID" on failure.
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID parses a query parameter that may be absent.
func parseOptionalID(c *gin.Context, value, label string) (*uuid.UUID, bool) {
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return nil, false
	}
	return &id, true
}

// pageParams binds page, per_page and search; out-of-range values are clamped later.
func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(pagination.DefaultPerPage)))
	return &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
		Search:  c.Query("search"),
	}
}

// dateRange binds from/to (YYYY-MM-DD).
func dateRange(c *gin.Context) pagination.DateRange {
	return pagination.DateRange{From: c.Query("from"), To: c.Query("to")}
}

// dateBounds resolves from/to for list filters, answering 400 on bad dates.
func dateBounds(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, to, err := dateRange(c).Bounds(time.Now())
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, nil, false
	}
	return from, to, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
