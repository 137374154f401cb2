package interfaces

import (
	"context"

	"invoice_ledger/internal/domain/entities"
)

// Document is a rendered invoice artifact.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// IDocumentRenderer turns a sent invoice into a deliverable document.
//go:generate mockgen -source=document_interface.go -destination=mocks/mock_document_interface.go -package=mock_interfaces

type IDocumentRenderer interface {
	Render(ctx context.Context, inv entities.Invoice) (Document, error)
}

// INotifier delivers a document to a recipient address.
type INotifier interface {
	Notify(ctx context.Context, address string, inv entities.Invoice, doc Document) error
}
