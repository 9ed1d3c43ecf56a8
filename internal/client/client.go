package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Client is a customer identified by their CPF.
type Client struct {
	Name          string `json:"name" mapstructure:"name"`
	CPF           string `json:"cpf" mapstructure:"cpf"`
	PhoneNumber   string `json:"phoneNumber" mapstructure:"phoneNumber"`
	Address       string `json:"address" mapstructure:"address"`
	AddressNumber string `json:"addressNumber" mapstructure:"addressNumber"`
	City          string `json:"city" mapstructure:"city"`
	State         string `json:"state" mapstructure:"state"`
}

// New creates a normalized Client.
func New(name, cpf, phoneNumber, address, addressNumber, city, state string) *Client {
	c := &Client{
		Name:          name,
		CPF:           cpf,
		PhoneNumber:   phoneNumber,
		Address:       address,
		AddressNumber: addressNumber,
		City:          city,
		State:         state,
	}
	c.Normalize()
	return c
}

// Normalize removes surrounding whitespace from the CPF, the phone number and the address number.
// Clients decoded from a request body must be normalized before they reach a store.
func (c *Client) Normalize() {
	c.CPF = strings.TrimSpace(c.CPF)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.AddressNumber = strings.TrimSpace(c.AddressNumber)
}

// Identifier returns the CPF.
func (c *Client) Identifier() string {
	return c.CPF
}

func (c *Client) Copy() *Client {
	copied := *c
	return &copied
}

// UpdateWith copies all data of the passed client except its CPF.
func (c *Client) UpdateWith(other *Client) {
	c.Name = other.Name
	c.PhoneNumber = other.PhoneNumber
	c.Address = other.Address
	c.AddressNumber = other.AddressNumber
	c.City = other.City
	c.State = other.State
}

func (c *Client) String() string {
	return fmt.Sprintf("Informações do Cliente: \nNome: %s\nCPF: %s\nNúmero de Telefone: %s\nEndereço: %s"+
		"\nNúmero do Endereço: %s\nCidade: %s\nEstado: %s",
		c.Name, c.CPF, c.PhoneNumber, c.Address, c.AddressNumber, c.City, c.State)
}

// TableHeader names the columns of TableRow.
var TableHeader = []string{"CPF", "Nome", "Telefone", "Endereço", "Número", "Cidade", "Estado"}

// TableRow returns the data of the client in the order of TableHeader.
func (c *Client) TableRow() []string {
	return []string{c.CPF, c.Name, c.PhoneNumber, c.Address, c.AddressNumber, c.City, c.State}
}

func merge(registered, incoming *Client) {
	registered.UpdateWith(incoming)
}

// NewStore returns a store of the passed kind for clients.
func NewStore(kind storage.Kind, options ...storage.Option[*Client]) (storage.Store[*Client], error) {
	store, err := storage.New[*Client](kind, merge, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot create client store: %w", err)
	}
	return store, nil
}

// NewMonitoredStore returns a store of the passed kind whose writes are monitored.
func NewMonitoredStore(ctx context.Context, kind storage.Kind) (storage.Store[*Client], error) {
	return NewStore(kind,
		storage.WithMonitoring[*Client](monitoring.MeasurementClients, monitorClient),
		storage.WithPeriodicMonitoring[*Client](ctx, monitoring.PeriodicInterval))
}

func monitorClient(p *write.Point, c *Client, eventType storage.EventType) {
	if c == nil || eventType == storage.Periodically {
		return
	}
	p.AddTag("state", c.State)
}
