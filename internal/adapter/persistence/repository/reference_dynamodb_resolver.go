package repository

import (
	"context"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultClientsTableName = "clients"
	defaultSitesTableName   = "sites"
)

type clientItem struct {
	ID       string `dynamodbav:"id"`
	TenantID string `dynamodbav:"tenant_id"`
	Name     string `dynamodbav:"name"`
	Email    string `dynamodbav:"email"`
}

type siteItem struct {
	ID       string `dynamodbav:"id"`
	TenantID string `dynamodbav:"tenant_id"`
	ClientID string `dynamodbav:"client_id"`
	Name     string `dynamodbav:"name"`
}

// ReferenceDynamoResolver reads client and site records owned by other services.
//
// Table requirements (both tables):
//   - PK: id (string), with a tenant_id attribute
type ReferenceDynamoResolver struct {
	ddb          DynamoDBAPI
	clientsTable string
	sitesTable   string
}

var _ interfaces.IReferenceResolver = (*ReferenceDynamoResolver)(nil)

func NewReferenceDynamoResolver(ddb DynamoDBAPI) *ReferenceDynamoResolver {
	return &ReferenceDynamoResolver{
		ddb:          ddb,
		clientsTable: getenvDefault("CLIENTS_TABLE", defaultClientsTableName),
		sitesTable:   getenvDefault("SITES_TABLE", defaultSitesTableName),
	}
}

func (r *ReferenceDynamoResolver) ResolveClient(ctx context.Context, tenantID, clientID string) (entities.Client, error) {
	var it clientItem
	found, err := r.getByID(ctx, r.clientsTable, clientID, &it)
	if err != nil {
		return entities.Client{}, err
	}
	if !found || it.TenantID != tenantID {
		return entities.Client{}, interfaces.ErrReferenceNotInTenant
	}
	return entities.Client{ID: it.ID, TenantID: it.TenantID, Name: it.Name, Email: it.Email}, nil
}

func (r *ReferenceDynamoResolver) ResolveSite(ctx context.Context, tenantID, siteID string) (entities.Site, error) {
	var it siteItem
	found, err := r.getByID(ctx, r.sitesTable, siteID, &it)
	if err != nil {
		return entities.Site{}, err
	}
	if !found || it.TenantID != tenantID {
		return entities.Site{}, interfaces.ErrReferenceNotInTenant
	}
	return entities.Site{ID: it.ID, TenantID: it.TenantID, ClientID: it.ClientID, Name: it.Name}, nil
}

func (r *ReferenceDynamoResolver) getByID(ctx context.Context, table, id string, out any) (bool, error) {
	res, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return false, err
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	return true, attributevalue.UnmarshalMap(res.Item, out)
}
