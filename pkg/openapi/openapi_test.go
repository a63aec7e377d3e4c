package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderentry/pkg/template"
)

const orderServiceDoc = `
openapi: 3.0.3
info:
  title: Order Service
  version: 1.0.0
paths:
  /orders:
    post:
      operationId: createOrder
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [projectName]
              properties:
                projectName:
                  type: string
                  title: Project
                orderDate:
                  type: string
                  format: date
                totalBudget:
                  type: number
                urgent:
                  type: boolean
                category:
                  type: string
                  enum: [materials, services]
                description:
                  type: string
                  maxLength: 2000
                supplier:
                  type: object
                  properties:
                    name:
                      type: string
                items:
                  type: array
                  items:
                    type: object
      responses:
        "201":
          description: created
    get:
      operationId: listOrders
      responses:
        "200":
          description: ok
`

func TestFieldsFromOperation(t *testing.T) {
	fields, err := FieldsFromOperation(context.Background(), []byte(orderServiceDoc), "createOrder", Options{})
	if err != nil {
		t.Fatalf("FieldsFromOperation: %v", err)
	}

	want := []template.TemplateField{
		{FieldName: "category", Label: "category", FieldType: template.FieldTypeSelect, Options: []string{"materials", "services"}, SortOrder: 0},
		{FieldName: "description", Label: "description", FieldType: template.FieldTypeTextarea, SortOrder: 1},
		{FieldName: "orderDate", Label: "orderDate", FieldType: template.FieldTypeDate, SortOrder: 2},
		{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText, Required: true, SortOrder: 3},
		{FieldName: "totalBudget", Label: "totalBudget", FieldType: template.FieldTypeNumber, SortOrder: 4},
		{FieldName: "urgent", Label: "urgent", FieldType: template.FieldTypeSelect, Options: []string{"true", "false"}, SortOrder: 5},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsFromOperationSkipsCompositeProperties(t *testing.T) {
	fields, err := FieldsFromOperation(context.Background(), []byte(orderServiceDoc), "createOrder", Options{})
	if err != nil {
		t.Fatalf("FieldsFromOperation: %v", err)
	}
	for _, field := range fields {
		if field.FieldName == "supplier" || field.FieldName == "items" {
			t.Fatalf("composite property leaked into fields: %q", field.FieldName)
		}
	}
}

func TestFieldsFromOperationNotFound(t *testing.T) {
	_, err := FieldsFromOperation(context.Background(), []byte(orderServiceDoc), "deleteOrder", Options{})
	if !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestFieldsFromOperationNoRequestBody(t *testing.T) {
	if _, err := FieldsFromOperation(context.Background(), []byte(orderServiceDoc), "listOrders", Options{}); err == nil {
		t.Fatalf("expected error for operation without request body")
	}
}

func TestFieldsFromOperationEmptyDocument(t *testing.T) {
	if _, err := FieldsFromOperation(context.Background(), nil, "createOrder", Options{}); err == nil {
		t.Fatalf("expected error for empty document")
	}
}
