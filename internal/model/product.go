package model

import (
	"encoding/json"
	"maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category tags a product for the fixed category listings.
type Category string

const (
	CategoryCars      Category = "cars"
	CategoryTrucks    Category = "trucks"
	CategoryAirplanes Category = "airplanes"
	CategoryBikes     Category = "bikes"
)

// Product is the read view of a stored document. Price and Ratings keep
// whatever the writer sent (number, string, object); keys outside the known
// set are carried in Extra and rendered back at the top level.
type Product struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CategoryID    string             `json:"categoryID" bson:"categoryID"`
	Name          string             `json:"name" bson:"name"`
	Price         any                `json:"price" bson:"price"`
	Picture       string             `json:"picture" bson:"picture"`
	Description   string             `json:"description" bson:"description"`
	OwnerEmail    string             `json:"ownerEmail" bson:"ownerEmail"`
	OwnerUserName string             `json:"ownerUserName" bson:"ownerUserName"`
	Ratings       any                `json:"ratings" bson:"ratings"`
	Extra         map[string]any     `json:"-" bson:",inline"`
}

var productKeys = []string{
	"_id", "categoryID", "name", "price", "picture",
	"description", "ownerEmail", "ownerUserName", "ratings",
}

// productFields has Product's layout without its JSON methods.
type productFields Product

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+len(productKeys))
	maps.Copy(out, p.Extra)
	if !p.ID.IsZero() {
		out["_id"] = p.ID
	}
	out["categoryID"] = p.CategoryID
	out["name"] = p.Name
	out["price"] = p.Price
	out["picture"] = p.Picture
	out["description"] = p.Description
	out["ownerEmail"] = p.OwnerEmail
	out["ownerUserName"] = p.OwnerUserName
	out["ratings"] = p.Ratings
	return json.Marshal(out)
}

func (p *Product) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, (*productFields)(p)); err != nil {
		return err
	}
	var rest map[string]any
	if err := json.Unmarshal(b, &rest); err != nil {
		return err
	}
	for _, k := range productKeys {
		delete(rest, k)
	}
	p.Extra = nil
	if len(rest) > 0 {
		p.Extra = rest
	}
	return nil
}

// Document is a product payload as the client sent it. It is written to the
// store without validation or coercion.
type Document map[string]any

// EditableFields is the field set an update replaces.
var EditableFields = []string{
	"name", "price", "picture", "categoryID",
	"ownerUserName", "ownerEmail", "ratings", "description",
}

// Editable returns exactly the EditableFields of d. Absent keys map to nil
// so that an update clears them.
func (d Document) Editable() Document {
	out := make(Document, len(EditableFields))
	for _, k := range EditableFields {
		out[k] = d[k]
	}
	return out
}
