// Package customer holds the customer entity and the payloads that create,
// replace and patch it.
package customer

import (
	"encoding/json"
	"sort"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/validation"
)

// CreateCustomerRequest payload of creation.
// A client-supplied "id" is ignored; ids are assigned by the store.
// swagger:model CreateCustomerRequest
type CreateCustomerRequest struct {
	Name          string `json:"name"           validate:"required,min=1,max=100"     example:"Ann"`
	Email         string `json:"email"          validate:"required,email"             example:"ann@x.com"`
	CustomerSince *int   `json:"customer_since" validate:"omitnil,min=2000,max=2100" example:"2020"`
}

// Validate checks every field.
func (r CreateCustomerRequest) Validate() error { return validation.Struct(r) }

// Apply overwrites all stored fields of c.
func (r CreateCustomerRequest) Apply(c *Customer) {
	c.Name = r.Name
	c.Email = r.Email
	c.CustomerSince = copyInt(r.CustomerSince)
}

// ReplaceCustomerRequest payload of full replacement. Every field is required.
// swagger:model ReplaceCustomerRequest
type ReplaceCustomerRequest struct {
	Name          string `json:"name"           validate:"required,min=1,max=100"      example:"Ann"`
	Email         string `json:"email"          validate:"required,email"              example:"ann@x.com"`
	CustomerSince *int   `json:"customer_since" validate:"required,min=2000,max=2100" example:"2020"`
}

// Validate checks every field.
func (r ReplaceCustomerRequest) Validate() error { return validation.Struct(r) }

// Apply overwrites all stored fields of c.
func (r ReplaceCustomerRequest) Apply(c *Customer) {
	c.Name = r.Name
	c.Email = r.Email
	c.CustomerSince = copyInt(r.CustomerSince)
}

// PatchCustomerRequest payload of partial update. Only the keys present in the
// JSON object are applied.
// swagger:model PatchCustomerRequest
type PatchCustomerRequest struct {
	Name          *string `json:"name"           validate:"omitnil,min=1,max=100"     example:"Ann"`
	Email         *string `json:"email"          validate:"omitnil,email"             example:"ann@x.com"`
	CustomerSince *int    `json:"customer_since" validate:"omitnil,min=2000,max=2100" example:"2020"`

	present []string
}

type patchSetter struct {
	// nullable fields accept an explicit JSON null
	nullable bool
	set      func(c *Customer, p *PatchCustomerRequest)
}

// patchSetters is the allow-list of patchable fields. Any other key, "id"
// included, is ignored.
var patchSetters = map[string]patchSetter{
	"name":  {set: func(c *Customer, p *PatchCustomerRequest) { c.Name = *p.Name }},
	"email": {set: func(c *Customer, p *PatchCustomerRequest) { c.Email = *p.Email }},
	"customer_since": {nullable: true, set: func(c *Customer, p *PatchCustomerRequest) {
		c.CustomerSince = copyInt(p.CustomerSince)
	}},
}

// UnmarshalJSON decodes the typed fields and records which allowed keys were sent.
func (p *PatchCustomerRequest) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	type fields PatchCustomerRequest
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = PatchCustomerRequest(f)
	p.present = p.present[:0]
	for key := range raw {
		if _, ok := patchSetters[key]; ok {
			p.present = append(p.present, key)
		}
	}
	sort.Strings(p.present)
	return nil
}

// Fields returns the allowed keys present in the payload, sorted.
func (p *PatchCustomerRequest) Fields() []string { return p.present }

// Empty reports whether the patch changes nothing.
func (p *PatchCustomerRequest) Empty() bool { return len(p.present) == 0 }

// Validate checks the present fields. A null for a required field is rejected.
func (p *PatchCustomerRequest) Validate() error {
	var nulls []apperr.FieldError
	for _, key := range p.present {
		if !patchSetters[key].nullable && p.isNull(key) {
			nulls = append(nulls, apperr.FieldError{Field: key, Rule: "required", Message: key + " may not be null"})
		}
	}
	if len(nulls) > 0 {
		return &apperr.ValidationError{Fields: nulls}
	}
	return validation.Struct(p)
}

// Apply assigns the present fields to c. Validate must have succeeded.
func (p *PatchCustomerRequest) Apply(c *Customer) {
	for _, key := range p.present {
		patchSetters[key].set(c, p)
	}
}

func (p *PatchCustomerRequest) isNull(key string) bool {
	switch key {
	case "name":
		return p.Name == nil
	case "email":
		return p.Email == nil
	case "customer_since":
		return p.CustomerSince == nil
	}
	return false
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
