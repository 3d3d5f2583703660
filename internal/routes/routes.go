package routes

import (
	"github.com/gofiber/fiber/v2"

	gatekeeper "github.com/helioslabs/gatekeeper"
)

// Setup registers all HTTP routes on the Fiber app.
func Setup(app *fiber.App, svc *gatekeeper.Service) {
	h := &handlers{svc: svc}

	app.Post("/access", h.access)

	app.Post("/access-log", h.createAccessLog)
	app.Get("/access-log", h.getAccessLogs)
	app.Get("/access-log/reConfigureAccessLogs", h.reconfigure)
	app.Get("/access-log/reConfigureAccessLogs/:interval", h.reconfigure)

	app.Put("/config/accessLogInterval", h.setLogInterval)

	app.Post("/buildings", h.createBuilding)
	app.Get("/buildings/:id", h.getBuilding)

	app.Post("/companies", h.createCompany)
	app.Get("/companies/:id", h.getCompany)
	app.Post("/companies/:id/owned-buildings/:buildingId", h.claimBuilding)
	app.Delete("/companies/:id/owned-buildings/:buildingId", h.releaseBuilding)

	app.Post("/employees", h.createEmployee)
	app.Get("/employees/:id", h.getEmployee)
	app.Patch("/employees/:id", h.updateEmployee)
	app.Delete("/employees/:id", h.deleteEmployee)
	app.Post("/employees/:id/refresh-permissions", h.refreshPermissions)

	app.Post("/access-cards", h.issueCard)
	app.Get("/access-cards/:id", h.getCard)
	app.Patch("/access-cards/:id", h.updateCard)
	app.Delete("/access-cards/:id", h.deleteCard)

	app.Post("/access-levels", h.createAccessLevel)
	app.Get("/access-levels", h.listAccessLevels)
	app.Get("/access-levels/:name", h.getAccessLevel)
	app.Patch("/access-levels/:name", h.updateAccessLevel)
	app.Delete("/access-levels/:name", h.deleteAccessLevel)
}
