package listview

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParamsFromQuery extrait l'état de la vue depuis la query string :
// ?page=2&limit=20&sort=price&order=desc&filter[status]=paid,shipped
func ParamsFromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	filters := make(map[string][]string)
	for key, value := range c.QueryMap("filter") {
		if value == "" {
			continue
		}
		filters[key] = strings.Split(value, ",")
	}

	return Params{
		Page:       page,
		Limit:      limit,
		SortKey:    c.Query("sort"),
		Descending: c.DefaultQuery("order", "asc") == "desc",
		Filters:    filters,
	}
}
