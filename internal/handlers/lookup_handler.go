package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/lookup"
)

type LookupHandler struct {
	catalog *lookup.Catalog
}

func NewLookupHandler(catalog *lookup.Catalog) *LookupHandler {
	return &LookupHandler{catalog: catalog}
}

func (h *LookupHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.LookupResponse{
		Genders:       lookup.Genders,
		Hobbies:       lookup.Hobbies,
		TechInterests: lookup.TechInterests,
		States:        h.catalog.States,
		Cities:        h.catalog.Cities(),
		CitiesByState: h.catalog.CitiesByState,
		Roles:         lookup.Roles,
		Departments:   lookup.Departments,
		Statuses:      lookup.Statuses,
	})
}
