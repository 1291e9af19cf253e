package server

import (
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Search matches thread titles and published post bodies against a substring
// query. Thread and post results page independently via thread_page and
// post_page; both share the page_size parameter.
func (s *Server) Search(c *fiber.Ctx) error {
	p := parsePagination(c)

	threadPage := c.QueryInt("thread_page", p.Page)
	if threadPage < 1 {
		threadPage = 1
	}
	postPage := c.QueryInt("post_page", p.Page)
	if postPage < 1 {
		postPage = 1
	}

	results, err := s.searchService.Search(c.UserContext(), service.SearchInput{
		Query:        c.Query("q"),
		ThreadLimit:  p.PageSize,
		ThreadOffset: (threadPage - 1) * p.PageSize,
		PostLimit:    p.PageSize,
		PostOffset:   (postPage - 1) * p.PageSize,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(results)
}
