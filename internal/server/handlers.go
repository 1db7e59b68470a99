package server

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// listMembers returns a page of the active partition.
// GET /api/members?page=1&lunchOnly=true
func (s *Server) listMembers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))

	opts := types.ListOptions{
		Page:     page,
		PageSize: s.cfg.ListPageSize(),
	}
	if lo := c.Query("lunchOnly"); lo == "true" || lo == "1" {
		opts.Filter = types.LunchOnly
	}

	res, err := s.store.List(opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// checkRegistration reports whether a kiosk input is free to register.
// The :id value is checked against both member numbers and phone
// numbers; a hit means the member already exists.
// GET /api/members/:id
func (s *Server) checkRegistration(c *fiber.Ctx) error {
	key := c.Params("id")

	if m, err := s.store.GetByUserNo(key); err == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "member number already registered",
			"member":  m,
		})
	} else if !errors.Is(err, types.ErrMemberNotFound) {
		return err
	}

	if m, err := s.store.GetByPhone(key); err == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "phone number already registered",
			"member":  m,
		})
	} else if !errors.Is(err, types.ErrMemberNotFound) {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "available for registration"})
}

// createMember registers a new record and schedules the delayed export.
// POST /api/members
func (s *Server) createMember(c *fiber.Ctx) error {
	var req createMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	m, err := s.store.Create(req.data())
	if err != nil {
		return err
	}

	// Export runs decoupled from this response; its outcome never
	// reaches the caller.
	s.reports.ScheduleExport()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": m})
}

// updateMember applies a partial patch.
// PUT /api/members/:id
func (s *Server) updateMember(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	var req updateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	m, err := s.store.Update(id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": m})
}

// deleteMember removes a record.
// DELETE /api/members/:id
func (s *Server) deleteMember(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseID guards against malformed numeric identifiers.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, types.ErrInvalidID
	}
	return id, nil
}

// validationMessage flattens validator output to a single client-facing
// line naming the first offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return "invalid payload"
}
