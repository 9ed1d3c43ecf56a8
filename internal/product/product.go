package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Product is an article identified by its code.
type Product struct {
	Name        string  `json:"name" mapstructure:"name"`
	Code        string  `json:"code" mapstructure:"code"`
	Description string  `json:"description" mapstructure:"description"`
	Value       float64 `json:"value" mapstructure:"value"`
	Brand       string  `json:"brand" mapstructure:"brand"`
}

func New(name, code, description string, value float64, brand string) *Product {
	p := &Product{
		Name:        name,
		Code:        code,
		Description: description,
		Value:       value,
		Brand:       brand,
	}
	p.Normalize()
	return p
}

// Normalize removes surrounding whitespace from the code.
func (p *Product) Normalize() {
	p.Code = strings.TrimSpace(p.Code)
}

// Identifier returns the product code.
func (p *Product) Identifier() string {
	return p.Code
}

func (p *Product) Copy() *Product {
	copied := *p
	return &copied
}

func (p *Product) String() string {
	return fmt.Sprintf("Informações do Produto:\nNome: %s\nCódigo: %s\nDescrição: %s\nValor: R$ %.2f\nMarca: %s",
		p.Name, p.Code, p.Description, p.Value, p.Brand)
}

// TableHeader names the columns of TableRow.
var TableHeader = []string{"Código", "Nome", "Descrição", "Valor", "Marca"}

// TableRow returns the data of the product in the order of TableHeader.
func (p *Product) TableRow() []string {
	return []string{p.Code, p.Name, p.Description, fmt.Sprintf("R$ %.2f", p.Value), p.Brand}
}

// Merge copies name, description, value and brand of the incoming product. The code is kept.
func Merge(registered, incoming *Product) {
	registered.Name = incoming.Name
	registered.Description = incoming.Description
	registered.Value = incoming.Value
	registered.Brand = incoming.Brand
}

// NewStore returns a store of the passed kind for products.
func NewStore(kind storage.Kind, options ...storage.Option[*Product]) (storage.Store[*Product], error) {
	store, err := storage.New[*Product](kind, Merge, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot create product store: %w", err)
	}
	return store, nil
}

// NewMonitoredStore returns a store of the passed kind whose writes are monitored.
func NewMonitoredStore(ctx context.Context, kind storage.Kind) (storage.Store[*Product], error) {
	return NewStore(kind,
		storage.WithMonitoring[*Product](monitoring.MeasurementProducts, monitorProduct),
		storage.WithPeriodicMonitoring[*Product](ctx, monitoring.PeriodicInterval))
}

func monitorProduct(p *write.Point, product *Product, eventType storage.EventType) {
	if product == nil || eventType == storage.Periodically {
		return
	}
	p.AddTag("brand", product.Brand)
	p.AddField("value", product.Value)
}
