package models

import (
	"encoding/json"
	"time"
)

// Scene is a stored scene document with its metadata. Data holds the
// SceneDocument JSON verbatim.
type Scene struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Summary is a scene without its data, as listed.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Payload is the create and update request body.
type Payload struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// Created is the create response: the record plus its file name.
type Created struct {
	Scene
	FilePath string `json:"filePath,omitempty"`
}
