package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/store"
)

// listOptionsFromQuery builds pagination/search options from the common
// query parameters: skip, limit, search, with_relationships.
func listOptionsFromQuery(c *gin.Context) store.ListOptions {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	return store.ListOptions{
		Skip:              skip,
		Limit:             limit,
		Search:            c.Query("search"),
		WithRelationships: c.Query("with_relationships") == "true",
	}
}
