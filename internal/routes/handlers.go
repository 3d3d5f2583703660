package routes

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	gatekeeper "github.com/helioslabs/gatekeeper"
)

type handlers struct {
	svc *gatekeeper.Service
}

// fail maps a service error to its HTTP status with a short message.
// Internal stack detail never reaches the caller.
func fail(c *fiber.Ctx, err error) error {
	status := gatekeeper.StatusCode(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// ── access decisions ─────────────────────────────────────────────────────

func (h *handlers) access(c *fiber.Ctx) error {
	var req gatekeeper.AccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	resp, err := h.svc.Decide(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": resp.Message})
}

// ── audit log ────────────────────────────────────────────────────────────

func (h *handlers) createAccessLog(c *fiber.Ctx) error {
	var entry gatekeeper.LogEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	if err := h.svc.Append(c.Context(), entry); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *handlers) getAccessLogs(c *fiber.Ctx) error {
	buckets, err := h.svc.Buckets(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(buckets)
}

func (h *handlers) reconfigure(c *fiber.Ctx) error {
	ctx := c.Context()

	var seconds int64
	if raw := c.Params("interval"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "interval must be a positive number of seconds"})
		}
		seconds = parsed
		if err := h.svc.SetLogInterval(ctx, seconds); err != nil {
			return fail(c, err)
		}
	} else {
		current, err := h.svc.LogInterval(ctx)
		if err != nil {
			return fail(c, err)
		}
		seconds = current
	}

	if err := h.svc.Reconfigure(ctx, seconds); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("access logs re-configured with interval: %g hours", float64(seconds)/3600),
	})
}

func (h *handlers) setLogInterval(c *fiber.Ctx) error {
	var body struct {
		Seconds int64 `json:"seconds"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	if err := h.svc.SetLogInterval(c.Context(), body.Seconds); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "accessLogInterval updated"})
}

// ── buildings ────────────────────────────────────────────────────────────

func (h *handlers) createBuilding(c *fiber.Ctx) error {
	var in gatekeeper.NewBuildingInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	building, err := h.svc.CreateBuilding(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(building)
}

func (h *handlers) getBuilding(c *fiber.Ctx) error {
	building, err := h.svc.GetBuilding(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(building)
}

// ── companies ────────────────────────────────────────────────────────────

func (h *handlers) createCompany(c *fiber.Ctx) error {
	var in gatekeeper.NewCompanyInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	company, err := h.svc.CreateCompany(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

func (h *handlers) getCompany(c *fiber.Ctx) error {
	company, err := h.svc.GetCompany(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

func (h *handlers) claimBuilding(c *fiber.Ctx) error {
	company, err := h.svc.ClaimBuilding(c.Context(), c.Params("id"), c.Params("buildingId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

func (h *handlers) releaseBuilding(c *fiber.Ctx) error {
	company, err := h.svc.ReleaseBuilding(c.Context(), c.Params("id"), c.Params("buildingId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

// ── employees ────────────────────────────────────────────────────────────

func (h *handlers) createEmployee(c *fiber.Ctx) error {
	var in gatekeeper.NewEmployeeInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	employee, err := h.svc.CreateEmployee(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

func (h *handlers) getEmployee(c *fiber.Ctx) error {
	employee, err := h.svc.GetEmployee(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(employee)
}

func (h *handlers) updateEmployee(c *fiber.Ctx) error {
	var in gatekeeper.UpdateEmployeeInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	employee, err := h.svc.UpdateEmployee(c.Context(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(employee)
}

func (h *handlers) deleteEmployee(c *fiber.Ctx) error {
	if err := h.svc.DeleteEmployee(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) refreshPermissions(c *fiber.Ctx) error {
	if err := h.svc.RefreshPermissions(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "permissions refreshed"})
}

// ── access cards ─────────────────────────────────────────────────────────

func (h *handlers) issueCard(c *fiber.Ctx) error {
	var in gatekeeper.IssueCardInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	card, err := h.svc.IssueCard(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func (h *handlers) getCard(c *fiber.Ctx) error {
	card, err := h.svc.GetCard(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(card)
}

func (h *handlers) updateCard(c *fiber.Ctx) error {
	var in gatekeeper.UpdateCardInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	card, err := h.svc.UpdateCard(c.Context(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(card)
}

func (h *handlers) deleteCard(c *fiber.Ctx) error {
	if err := h.svc.DeleteCard(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── access levels ────────────────────────────────────────────────────────

func (h *handlers) createAccessLevel(c *fiber.Ctx) error {
	var in gatekeeper.NewAccessLevelInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	level, err := h.svc.CreateAccessLevel(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(level)
}

func (h *handlers) listAccessLevels(c *fiber.Ctx) error {
	levels, err := h.svc.ListAccessLevels(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(levels)
}

func (h *handlers) getAccessLevel(c *fiber.Ctx) error {
	level, err := h.svc.GetAccessLevel(c.Context(), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(level)
}

func (h *handlers) updateAccessLevel(c *fiber.Ctx) error {
	var in gatekeeper.UpdateAccessLevelInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed request body"})
	}
	level, err := h.svc.UpdateAccessLevel(c.Context(), c.Params("name"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(level)
}

func (h *handlers) deleteAccessLevel(c *fiber.Ctx) error {
	if err := h.svc.DeleteAccessLevel(c.Context(), c.Params("name")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
