package models

// Patch is a partial update: a subset of an entity's JSON fields with their new values.
// A null value clears the field.
type Patch map[string]interface{}
