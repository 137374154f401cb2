package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultInvoicesTableName       = "invoices"
	defaultInvoiceNumbersTableName = "invoice_numbers"

	conditionalCheckFailed = "ConditionalCheckFailed"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by the repositories.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type lineItemItem struct {
	Description    string `dynamodbav:"description"`
	Quantity       string `dynamodbav:"quantity"`
	UnitRate       string `dynamodbav:"unit_rate"`
	TaxRatePercent string `dynamodbav:"tax_rate_percent"`
}

type paymentItem struct {
	ID                string `dynamodbav:"id"`
	Amount            string `dynamodbav:"amount"`
	Date              string `dynamodbav:"date"`
	Method            string `dynamodbav:"method,omitempty"`
	Note              string `dynamodbav:"note,omitempty"`
	ProviderPaymentID string `dynamodbav:"provider_payment_id,omitempty"`
	CreatedBy         string `dynamodbav:"created_by,omitempty"`
	CreatedAt         string `dynamodbav:"created_at"`
}

type invoiceItem struct {
	ID            string         `dynamodbav:"id"`
	TenantID      string         `dynamodbav:"tenant_id"`
	InvoiceNumber string         `dynamodbav:"invoice_number"`
	ClientID      string         `dynamodbav:"client_id,omitempty"`
	SiteID        string         `dynamodbav:"site_id,omitempty"`
	LineItems     []lineItemItem `dynamodbav:"line_items"`
	Subtotal      string         `dynamodbav:"subtotal"`
	Total         string         `dynamodbav:"total"`
	Status        string         `dynamodbav:"status"`
	SentAt        string         `dynamodbav:"sent_at,omitempty"`
	Payments      []paymentItem  `dynamodbav:"payments"`
	DueDate       string         `dynamodbav:"due_date,omitempty"`
	Notes         string         `dynamodbav:"notes,omitempty"`
	CreatedBy     string         `dynamodbav:"created_by,omitempty"`
	CreatedAt     string         `dynamodbav:"created_at"`
	UpdatedAt     string         `dynamodbav:"updated_at"`
	DeletedAt     string         `dynamodbav:"deleted_at,omitempty"`
	Version       int64          `dynamodbav:"version"`
}

type invoiceNumberItem struct {
	TenantID      string `dynamodbav:"tenant_id"`
	InvoiceNumber string `dynamodbav:"invoice_number"`
	InvoiceID     string `dynamodbav:"invoice_id"`
}

// InvoiceDynamoRepository persists invoices in DynamoDB.
//
// Table requirements:
//   - invoices: PK id (string); the ledger is embedded as the payments list
//   - invoice_numbers: PK tenant_id (string), SK invoice_number (string)
//
// An invoice and its number claim are written in one transaction, so a number
// can never be held by two invoices of the same tenant.
type InvoiceDynamoRepository struct {
	ddb          DynamoDBAPI
	tableName    string
	numbersTable string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb DynamoDBAPI) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:          ddb,
		tableName:    getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
		numbersTable: getenvDefault("INVOICE_NUMBERS_TABLE", defaultInvoiceNumbersTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
	}
	claim, err := attributevalue.MarshalMap(invoiceNumberItem{TenantID: inv.TenantID, InvoiceNumber: inv.InvoiceNumber, InvoiceID: inv.ID})
	if err != nil {
		return entities.Invoice{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.numbersTable),
				Item:                     claim,
				ConditionExpression:      aws.String("attribute_not_exists(#num)"),
				ExpressionAttributeNames: map[string]string{"#num": "invoice_number"},
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     av,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
		},
	})
	if err != nil {
		if failed := canceledByCondition(err); len(failed) > 0 && failed[0] {
			return entities.Invoice{}, interfaces.ErrInvoiceNumberTaken
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, tenantID, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	if it.TenantID != tenantID || it.DeletedAt != "" {
		return entities.Invoice{}, nil
	}
	return fromInvoiceItem(it)
}

func (r *InvoiceDynamoRepository) Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	expected := inv.Version
	inv.Version++
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("#version = :expected AND #tenant = :tenant AND attribute_not_exists(#deleted)"),
		ExpressionAttributeNames: map[string]string{
			"#version": "version",
			"#tenant":  "tenant_id",
			"#deleted": "deleted_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
			":tenant":   &types.AttributeValueMemberS{Value: inv.TenantID},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Invoice{}, interfaces.ErrVersionConflict
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) DeleteBatch(ctx context.Context, tenantID string, invoices []entities.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	items := make([]types.TransactWriteItem, 0, len(invoices)*2)
	for _, inv := range invoices {
		items = append(items,
			types.TransactWriteItem{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: inv.ID},
				},
				ConditionExpression: aws.String("#version = :expected AND #tenant = :tenant"),
				ExpressionAttributeNames: map[string]string{
					"#version": "version",
					"#tenant":  "tenant_id",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(inv.Version, 10)},
					":tenant":   &types.AttributeValueMemberS{Value: tenantID},
				},
			}},
			types.TransactWriteItem{Delete: &types.Delete{
				TableName: aws.String(r.numbersTable),
				Key: map[string]types.AttributeValue{
					"tenant_id":      &types.AttributeValueMemberS{Value: tenantID},
					"invoice_number": &types.AttributeValueMemberS{Value: inv.InvoiceNumber},
				},
			}},
		)
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		for _, failed := range canceledByCondition(err) {
			if failed {
				return interfaces.ErrVersionConflict
			}
		}
		return err
	}
	return nil
}

func (r *InvoiceDynamoRepository) ListInvoiceNumbers(ctx context.Context, tenantID, prefix string) ([]string, error) {
	keyCond := "tenant_id = :tenant"
	values := map[string]types.AttributeValue{
		":tenant": &types.AttributeValueMemberS{Value: tenantID},
	}
	if prefix != "" {
		keyCond += " AND begins_with(invoice_number, :prefix)"
		values[":prefix"] = &types.AttributeValueMemberS{Value: prefix}
	}

	var (
		numbers  []string
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.numbersTable),
			KeyConditionExpression:    aws.String(keyCond),
			ExpressionAttributeValues: values,
			ProjectionExpression:      aws.String("invoice_number"),
			ConsistentRead:            aws.Bool(true),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it invoiceNumberItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			numbers = append(numbers, it.InvoiceNumber)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return numbers, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// canceledByCondition reports, per transaction item, whether it failed its
// condition. It returns nil when err is not a transaction cancellation.
func canceledByCondition(err error) []bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	out := make([]bool, len(tce.CancellationReasons))
	for i, reason := range tce.CancellationReasons {
		out[i] = aws.ToString(reason.Code) == conditionalCheckFailed
	}
	return out
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	it := invoiceItem{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		SiteID:        inv.SiteID,
		LineItems:     make([]lineItemItem, 0, len(inv.LineItems)),
		Subtotal:      inv.Subtotal.String(),
		Total:         inv.Total.String(),
		Status:        string(inv.Status),
		SentAt:        formatOptionalTime(inv.SentAt),
		Payments:      make([]paymentItem, 0, len(inv.Payments)),
		DueDate:       formatOptionalTime(inv.DueDate),
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     inv.UpdatedAt.UTC().Format(time.RFC3339Nano),
		DeletedAt:     formatOptionalTime(inv.DeletedAt),
		Version:       inv.Version,
	}
	for _, li := range inv.LineItems {
		it.LineItems = append(it.LineItems, lineItemItem{
			Description:    li.Description,
			Quantity:       li.Quantity.String(),
			UnitRate:       li.UnitRate.String(),
			TaxRatePercent: li.TaxRatePercent.String(),
		})
	}
	for _, p := range inv.Payments {
		it.Payments = append(it.Payments, paymentItem{
			ID:                p.ID,
			Amount:            p.Amount.String(),
			Date:              p.Date.UTC().Format(time.RFC3339Nano),
			Method:            string(p.Method),
			Note:              p.Note,
			ProviderPaymentID: p.ProviderPaymentID,
			CreatedBy:         p.CreatedBy,
			CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return it
}

func fromInvoiceItem(it invoiceItem) (entities.Invoice, error) {
	inv := entities.Invoice{
		ID:            it.ID,
		TenantID:      it.TenantID,
		InvoiceNumber: it.InvoiceNumber,
		ClientID:      it.ClientID,
		SiteID:        it.SiteID,
		LineItems:     make([]entities.LineItem, 0, len(it.LineItems)),
		Status:        entities.InvoiceStatus(it.Status),
		SentAt:        parseOptionalTime(it.SentAt),
		Payments:      make([]entities.Payment, 0, len(it.Payments)),
		DueDate:       parseOptionalTime(it.DueDate),
		Notes:         it.Notes,
		CreatedBy:     it.CreatedBy,
		DeletedAt:     parseOptionalTime(it.DeletedAt),
		Version:       it.Version,
	}
	inv.CreatedAt, _ = time.Parse(time.RFC3339Nano, it.CreatedAt)
	inv.UpdatedAt, _ = time.Parse(time.RFC3339Nano, it.UpdatedAt)

	var err error
	if inv.Subtotal, err = decimal.NewFromString(it.Subtotal); err != nil {
		return entities.Invoice{}, err
	}
	if inv.Total, err = decimal.NewFromString(it.Total); err != nil {
		return entities.Invoice{}, err
	}
	for _, li := range it.LineItems {
		item := entities.LineItem{Description: li.Description}
		if item.Quantity, err = decimal.NewFromString(li.Quantity); err != nil {
			return entities.Invoice{}, err
		}
		if item.UnitRate, err = decimal.NewFromString(li.UnitRate); err != nil {
			return entities.Invoice{}, err
		}
		if item.TaxRatePercent, err = decimal.NewFromString(li.TaxRatePercent); err != nil {
			return entities.Invoice{}, err
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	for _, p := range it.Payments {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return entities.Invoice{}, err
		}
		date, _ := time.Parse(time.RFC3339Nano, p.Date)
		createdAt, _ := time.Parse(time.RFC3339Nano, p.CreatedAt)
		inv.Payments = append(inv.Payments, entities.Payment{
			ID:                p.ID,
			Amount:            amount,
			Date:              date,
			Method:            entities.PaymentMethod(p.Method),
			Note:              p.Note,
			ProviderPaymentID: p.ProviderPaymentID,
			CreatedBy:         p.CreatedBy,
			CreatedAt:         createdAt,
		})
	}
	return inv, nil
}
