package model

import "time"

// Map is a row in the `maps` table.  Maps are static reference data seeded
// at startup; no request path ever creates or mutates them.
type Map struct {
    ID          uint64    `json:"id"`          // maps.id
    Name        string    `json:"name"`        // maps.name (unique, e.g. "de_mirage")
    Description string    `json:"description"` // maps.description
    ImageURL    string    `json:"image_url"`   // maps.image_url
    CreatedAt   time.Time `json:"created_at"`  // maps.created_at
}
