package repository

import (
	"context"
	"sync"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"
)

// ReferenceMemoryResolver serves clients and sites registered in process.
// It pairs with InvoiceMemoryRepository for INVOICE_STORE=memory.
type ReferenceMemoryResolver struct {
	mu      sync.RWMutex
	clients map[string]entities.Client
	sites   map[string]entities.Site
}

var _ interfaces.IReferenceResolver = (*ReferenceMemoryResolver)(nil)

func NewReferenceMemoryResolver() *ReferenceMemoryResolver {
	return &ReferenceMemoryResolver{
		clients: make(map[string]entities.Client),
		sites:   make(map[string]entities.Site),
	}
}

func (r *ReferenceMemoryResolver) PutClient(c entities.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

func (r *ReferenceMemoryResolver) PutSite(s entities.Site) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites[s.ID] = s
}

func (r *ReferenceMemoryResolver) ResolveClient(_ context.Context, tenantID, clientID string) (entities.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	if !ok || c.TenantID != tenantID {
		return entities.Client{}, interfaces.ErrReferenceNotInTenant
	}
	return c, nil
}

func (r *ReferenceMemoryResolver) ResolveSite(_ context.Context, tenantID, siteID string) (entities.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sites[siteID]
	if !ok || s.TenantID != tenantID {
		return entities.Site{}, interfaces.ErrReferenceNotInTenant
	}
	return s, nil
}
