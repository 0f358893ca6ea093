package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/analytics"
	"github.com/jhoicas/frontdesk-api/internal/application/auth"
	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/reservation"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ReservationUC *reservation.UseCase
	InvoiceUC     *billing.InvoiceUseCase
	PaymentUC     *billing.PaymentUseCase
	DocumentUC    *billing.DocumentUseCase
	ReceivablesUC *analytics.ReceivablesUseCase
	JWTSecret     string
	Currency      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managerOnly := RequireRole(entity.RoleManager)

	protected.Post("/agents", managerOnly, authHandler.Register)

	resHandler := NewReservationHandler(deps.ReservationUC, deps.Currency)
	invHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC, deps.Currency)
	payHandler := NewPaymentHandler(deps.PaymentUC)

	protected.Get("/profiles", resHandler.SearchProfiles)

	res := protected.Group("/reservations")
	res.Post("/", resHandler.Create)
	res.Get("/", resHandler.List)
	res.Get("/:id", resHandler.GetByID)
	res.Put("/:id/status", resHandler.SetStatus)
	res.Put("/:id/option-expiry", resHandler.SetOptionExpiry)
	res.Put("/:id/rooms/:index/status", resHandler.SetRoomStatus)
	res.Put("/:id/rooms/:index/dates", resHandler.SetRoomDates)
	res.Put("/:id/rooms/:index/option-expiry", resHandler.SetRoomOptionExpiry)
	res.Post("/:id/extras", resHandler.AddExtra)
	res.Delete("/:id/extras/:key", resHandler.RemoveExtra)
	res.Put("/:id/recipient", resHandler.SetRecipient)
	res.Post("/:id/reminders", resHandler.AddReminder)
	res.Post("/:id/reminders/:reminderId/ack", resHandler.AcknowledgeReminder)

	// Facturación
	res.Get("/:id/billing", invHandler.Overview)
	res.Post("/:id/invoices", invHandler.Create)
	res.Post("/:id/invoices/quick", invHandler.Quick)
	res.Post("/:id/invoices/:invoiceId/credit", managerOnly, invHandler.Credit)
	res.Post("/:id/invoices/:invoiceId/amend", managerOnly, invHandler.Amend)
	res.Post("/:id/invoices/:invoiceId/finalize", invHandler.Finalize)
	res.Delete("/:id/invoices/:invoiceId", managerOnly, invHandler.Delete)
	res.Get("/:id/invoices/:invoiceId/pdf", invHandler.PDF)
	res.Get("/:id/invoices/:invoiceId/ubl", invHandler.UBL)

	// Pagos
	res.Post("/:id/payments", payHandler.Record)
	res.Post("/:id/payments/:paymentId/confirm", payHandler.Confirm)
	res.Put("/:id/payments/:paymentId/link", payHandler.Link)
	res.Delete("/:id/payments/:paymentId", managerOnly, payHandler.Delete)

	// Reportes
	reports := protected.Group("/reports")
	analyticsHandler := NewAnalyticsHandler(deps.ReceivablesUC)
	reports.Get("/receivables", analyticsHandler.GetReceivables)
}
