// Command orderentry-server is a reference backend for the order entry
// engine: it serves templates in the canonical wire shape, persists
// orders and templates in SQLite, and mounts the refdata catalog
// endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/goliatone/go-orderentry/components/orders"
	"github.com/goliatone/go-orderentry/components/refdata"
	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "orderentry.db", "SQLite database path")
	seed := flag.Bool("seed", false, "seed default templates on startup")
	klog.InitFlags(nil)
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		klog.Fatalf("open database: %v", err)
	}

	store, err := newGormStore(db)
	if err != nil {
		klog.Fatalf("init store: %v", err)
	}

	if *seed {
		seedTemplates(store)
	}

	router := gin.Default()
	registerTemplateRoutes(router, store)
	registerComponentRoutes(router, store)

	klog.Infof("listening on %s", *addr)
	if err := router.Run(*addr); err != nil {
		klog.Fatalf("serve: %v", err)
	}
}

// templateWire is the canonical template wire shape. FieldsConfig is the
// flat field list for general templates and the grid config for grid
// templates, exactly as clients expect to feed their normalizer.
type templateWire struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	FieldsConfig json.RawMessage `json:"fieldsConfig"`
	IsActive     bool            `json:"isActive"`
}

func registerTemplateRoutes(router *gin.Engine, store *gormStore) {
	router.GET("/templates", func(c *gin.Context) {
		templates, err := store.ActiveTemplates(c.Request.Context())
		if err != nil {
			klog.Errorf("list templates: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		out := make([]templateWire, 0, len(templates))
		for _, t := range templates {
			wire, err := toWire(t)
			if err != nil {
				klog.Errorf("encode template %s: %v", t.ID, err)
				continue
			}
			out = append(out, wire)
		}
		c.JSON(http.StatusOK, out)
	})

	router.GET("/templates/:id", func(c *gin.Context) {
		t, err := store.GetTemplate(c.Request.Context(), c.Param("id"))
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		if err != nil {
			klog.Errorf("get template: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
			return
		}
		wire, err := toWire(t)
		if err != nil {
			klog.Errorf("encode template %s: %v", t.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
			return
		}
		c.JSON(http.StatusOK, wire)
	})
}

func registerComponentRoutes(router *gin.Engine, store *gormStore) {
	ordersComponent := orders.New(
		orders.WithStore(store),
		orders.WithTemplateStore(store),
		orders.WithLogger(logging.Default()),
		orders.WithIDGenerator(uuid.NewString),
	)
	ordersHandler := gin.WrapH(ordersComponent.OrdersHandler())
	router.POST("/api/orders", ordersHandler)
	router.PUT("/api/orders/:id", ordersHandler)
	router.PATCH("/api/orders/:id", ordersHandler)

	templatesHandler := gin.WrapH(ordersComponent.TemplatesHandler())
	router.POST("/api/order-templates", templatesHandler)
	router.PUT("/api/order-templates/:id", templatesHandler)

	refdataComponent := refdata.New()
	router.GET("/api/refdata", gin.WrapH(refdataComponent.Handler()))
}

func toWire(t template.Template) (templateWire, error) {
	var payload any
	if t.Type == template.TypeGrid && t.GridConfig != nil {
		payload = t.GridConfig
	} else {
		payload = t.Fields
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return templateWire{}, err
	}
	return templateWire{
		ID:           t.ID,
		Name:         t.Name,
		Type:         string(t.Type),
		FieldsConfig: raw,
		IsActive:     t.IsActive,
	}, nil
}

func seedTemplates(store *gormStore) {
	gridCfg := template.DefaultGridConfig()
	seeds := []template.Template{
		{
			ID:         uuid.NewString(),
			Name:       "Purchase Order Items",
			Type:       template.TypeGrid,
			GridConfig: &gridCfg,
			IsActive:   true,
		},
		{
			ID:   uuid.NewString(),
			Name: "Purchase Order Header",
			Type: template.TypeGeneral,
			Fields: []template.TemplateField{
				{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText, Required: true, SortOrder: 0},
				{FieldName: "orderDate", Label: "Order Date", FieldType: template.FieldTypeDate, SortOrder: 1},
			},
			IsActive: true,
		},
	}

	ctx := context.Background()
	for _, t := range seeds {
		if _, err := store.SaveTemplate(ctx, t); err != nil {
			klog.Errorf("seed template %s: %v", t.Name, err)
		}
	}
}
