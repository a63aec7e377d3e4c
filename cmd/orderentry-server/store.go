package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/goliatone/go-orderentry/components/orders"
	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// templateRecord persists an entry template in canonical shape. The
// fields config column holds either the flat field list or the grid
// config as JSON, depending on the template type.
type templateRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Type         string
	FieldsConfig string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (templateRecord) TableName() string { return "order_templates" }

type orderRecord struct {
	ID           string `gorm:"primaryKey"`
	TemplateID   string
	Status       string
	CustomFields string
	Items        string
	TotalAmount  float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (orderRecord) TableName() string { return "purchase_orders" }

// gormStore implements orders.Store and orders.TemplateStore on a gorm
// connection.
type gormStore struct {
	db *gorm.DB
}

func newGormStore(db *gorm.DB) (*gormStore, error) {
	if err := db.AutoMigrate(&templateRecord{}, &orderRecord{}); err != nil {
		return nil, fmt.Errorf("server: migrate: %w", err)
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) CreateOrder(ctx context.Context, order *orders.Order) error {
	rec, err := toOrderRecord(order)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *gormStore) UpdateOrder(ctx context.Context, order *orders.Order) error {
	rec, err := toOrderRecord(order)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", rec.ID).Updates(&rec)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return orders.ErrNotFound
	}
	return nil
}

func (s *gormStore) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	var rec orderRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, err
	}
	return fromOrderRecord(rec)
}

func (s *gormStore) SaveTemplate(ctx context.Context, t template.Template) (template.Template, error) {
	rec, err := toTemplateRecord(t)
	if err != nil {
		return template.Template{}, err
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return template.Template{}, err
	}
	return t, nil
}

func (s *gormStore) GetTemplate(ctx context.Context, id string) (template.Template, error) {
	var rec templateRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return template.Template{}, orders.ErrNotFound
	}
	if err != nil {
		return template.Template{}, err
	}
	return fromTemplateRecord(rec)
}

func (s *gormStore) ActiveTemplates(ctx context.Context) ([]template.Template, error) {
	var recs []templateRecord
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	templates := make([]template.Template, 0, len(recs))
	for _, rec := range recs {
		t, err := fromTemplateRecord(rec)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func toOrderRecord(order *orders.Order) (orderRecord, error) {
	fields, err := json.Marshal(order.CustomFields)
	if err != nil {
		return orderRecord{}, fmt.Errorf("server: encode custom fields: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("server: encode items: %w", err)
	}
	return orderRecord{
		ID:           order.ID,
		TemplateID:   order.TemplateID,
		Status:       order.Status,
		CustomFields: string(fields),
		Items:        string(items),
		TotalAmount:  order.TotalAmount,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}, nil
}

func fromOrderRecord(rec orderRecord) (orders.Order, error) {
	order := orders.Order{
		ID:          rec.ID,
		TemplateID:  rec.TemplateID,
		Status:      rec.Status,
		TotalAmount: rec.TotalAmount,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.CustomFields != "" {
		if err := json.Unmarshal([]byte(rec.CustomFields), &order.CustomFields); err != nil {
			return orders.Order{}, fmt.Errorf("server: decode custom fields: %w", err)
		}
	}
	if rec.Items != "" {
		var items []lineitem.OrderLineItem
		if err := json.Unmarshal([]byte(rec.Items), &items); err != nil {
			return orders.Order{}, fmt.Errorf("server: decode items: %w", err)
		}
		order.Items = items
	}
	return order, nil
}

func toTemplateRecord(t template.Template) (templateRecord, error) {
	var payload any
	if t.Type == template.TypeGrid && t.GridConfig != nil {
		payload = t.GridConfig
	} else {
		payload = t.Fields
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return templateRecord{}, fmt.Errorf("server: encode fields config: %w", err)
	}
	return templateRecord{
		ID:           t.ID,
		Name:         t.Name,
		Type:         string(t.Type),
		FieldsConfig: string(raw),
		IsActive:     t.IsActive,
	}, nil
}

func fromTemplateRecord(rec templateRecord) (template.Template, error) {
	t := template.Template{
		ID:       rec.ID,
		Name:     rec.Name,
		Type:     template.Type(rec.Type),
		IsActive: rec.IsActive,
	}
	if rec.FieldsConfig == "" {
		return t, nil
	}
	if t.Type == template.TypeGrid {
		var cfg template.GridConfig
		if err := json.Unmarshal([]byte(rec.FieldsConfig), &cfg); err != nil {
			return template.Template{}, fmt.Errorf("server: decode grid config: %w", err)
		}
		t.GridConfig = &cfg
		return t, nil
	}
	if err := json.Unmarshal([]byte(rec.FieldsConfig), &t.Fields); err != nil {
		return template.Template{}, fmt.Errorf("server: decode fields: %w", err)
	}
	return t, nil
}
