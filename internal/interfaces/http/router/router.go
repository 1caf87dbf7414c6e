// Package router mounts the API surface on a gin engine. Routes are grouped
// by domain under a versioned prefix; company selection and authentication
// are applied by middleware installed on the engine, not here.
package router

import (
	"github.com/gestionale/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the handlers the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Company      *handler.CompanyHandler
	Counterparty *handler.CounterpartyHandler
	Document     *handler.DocumentHandler
	Installment  *handler.InstallmentHandler
	Ledger       *handler.LedgerHandler
	Account      *handler.AccountHandler
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1")
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New creates a new Router
func New(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath returns the versioned API prefix
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup registers all routes with the engine
func (r *Router) Setup(h Handlers) {
	api := r.engine.Group(r.BasePath())

	r.mountSystem(api, h)
	r.mountCompanies(api, h)
	r.mountRegistry(api, h)
	r.mountAccounting(api, h)
}

func (r *Router) mountSystem(api *gin.RouterGroup, h Handlers) {
	system := api.Group("/system")
	system.GET("/ping", h.System.Ping)
	system.GET("/info", h.System.GetSystemInfo)
}

func (r *Router) mountCompanies(api *gin.RouterGroup, h Handlers) {
	companies := api.Group("/companies")
	companies.POST("", h.Company.Create)
	companies.GET("", h.Company.List)
	companies.GET("/:id", h.Company.GetByID)
	companies.DELETE("/:id", h.Company.Deactivate)
}

func (r *Router) mountRegistry(api *gin.RouterGroup, h Handlers) {
	counterparties := api.Group("/registry/counterparties")
	counterparties.POST("", h.Counterparty.Create)
	counterparties.GET("", h.Counterparty.List)
	counterparties.GET("/:id", h.Counterparty.GetByID)
	counterparties.PUT("/:id", h.Counterparty.Update)
	counterparties.DELETE("/:id", h.Counterparty.Deactivate)
}

func (r *Router) mountAccounting(api *gin.RouterGroup, h Handlers) {
	accounting := api.Group("/accounting")

	documents := accounting.Group("/documents")
	documents.POST("", h.Document.Register)
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.GetByID)
	documents.PATCH("/:id", h.Document.UpdateHeader)
	documents.GET("/:id/installments", h.Document.ListInstallments)

	installments := accounting.Group("/installments")
	installments.GET("/open", h.Installment.ListOpen)
	installments.GET("/:id", h.Installment.GetByID)
	installments.POST("/:id/payments", h.Installment.RegisterPayment)

	payments := accounting.Group("/payments")
	payments.PUT("/:payment_id", h.Installment.EditPayment)
	payments.DELETE("/:payment_id", h.Installment.DeletePayment)

	entries := accounting.Group("/entries")
	entries.POST("", h.Ledger.PostEntry)
	entries.GET("", h.Ledger.List)
	entries.GET("/:id", h.Ledger.GetByID)
	entries.DELETE("/:id", h.Ledger.DeleteEntry)

	transfers := accounting.Group("/transfers")
	transfers.POST("", h.Ledger.PostTransfer)
	transfers.GET("/:group_id", h.Ledger.GetTransfer)
	transfers.PUT("/:group_id", h.Ledger.UpdateTransfer)
	transfers.DELETE("/:group_id", h.Ledger.ReverseTransfer)

	financial := accounting.Group("/financial-accounts")
	financial.POST("", h.Account.CreateFinancialAccount)
	financial.GET("", h.Account.ListFinancialAccounts)
	financial.DELETE("/:id", h.Account.DeactivateFinancialAccount)

	operating := accounting.Group("/operating-accounts")
	operating.POST("", h.Account.CreateOperatingAccount)
	operating.GET("", h.Account.ListOperatingAccounts)
	operating.DELETE(":id", h.Account.DeactivateOperatingAccount)

	causes := accounting.Group("/cause-codes")
	causes.POST("", h.Account.CreateCauseCode)
	causes.GET("", h.Account.ListCauseCodes)
	causes.DELETE("/:id", h.Account.DeactivateCauseCode)
}
