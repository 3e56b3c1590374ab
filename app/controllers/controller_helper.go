package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Session keys shared between controllers and the user-context middleware.
const (
	AUTH_KEY      string = "authenticated"
	USER_ID       string = "user_id"
	USER_NAME     string = "username"
	USER_EMAIL    string = "user_email"
	USER_IS_ADMIN string = "isAdmin"
)

const defaultPageSize = 50

// pageParams reads offset/limit style paging from the query string.
func pageParams(c *fiber.Ctx) (offset, limit int) {
	limit = defaultPageSize
	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit", "")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	return (page - 1) * limit, limit
}
