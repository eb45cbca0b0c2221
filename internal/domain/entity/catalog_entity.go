package entity

import "encoding/json"

// CatalogEntry is one Pokémon reference document. Source keeps the stored
// document as-is; the core only ever references entries by ID.
type CatalogEntry struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Source json.RawMessage `json:"source"`
}
