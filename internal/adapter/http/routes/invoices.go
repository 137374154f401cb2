package routes

import (
	"invoice_ledger/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathInvoices = "/invoices"
)

func addInvoiceRoutes(rg *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler, collectionHandler *handlers.CollectionHandler) {
	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("", invoiceHandler.CreateInvoice)
		invoices.POST("/batch-delete", invoiceHandler.BatchDeleteInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.PATCH("/:id", invoiceHandler.UpdateInvoice)
		invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)
		invoices.POST("/:id/send", invoiceHandler.SendInvoice)

		invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
		invoices.POST("/:id/payments/mercadopago", collectionHandler.CollectWithMercadoPago)
	}
}
