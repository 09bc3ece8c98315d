package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	VerificationUC *verification.UseCase
	AdminUC        *usecase.AdminUseCase
	// Updates nil = sin webhook (modo polling).
	Updates       UpdateHandler
	Tokens        *jwt.Issuer
	WebhookSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Updates != nil {
		webhook := NewWebhookHandler(deps.Updates, deps.WebhookSecret)
		app.Post("/telegram/webhook", webhook.Receive)
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Login)

	// Rutas protegidas (Bearer Token + rol de moderación)
	protected := api.Group("/", AuthMiddleware(deps.Tokens), RequireRole(entity.RoleAdmin, entity.RoleOwner))

	verificationHandler := NewVerificationHandler(deps.VerificationUC)
	verifications := protected.Group("/verifications")
	verifications.Get("/pending", verificationHandler.ListPending)
	verifications.Post("/:id/approve", verificationHandler.Approve)
	verifications.Post("/:id/reject", verificationHandler.Reject)

	adminHandler := NewAdminHandler(deps.AdminUC)
	protected.Get("/stats", adminHandler.Stats)
	protected.Get("/logs", adminHandler.Logs)

	// Administradores (solo owner)
	admins := protected.Group("/admins", RequireRole(entity.RoleOwner))
	admins.Get("/", adminHandler.ListAdmins)
	admins.Post("/", adminHandler.AddAdmin)
	admins.Delete("/:telegram_id", adminHandler.RemoveAdmin)
}
