package domain

import "errors"

var ErrConfigNotSet = errors.New("tower config not set")

// Upstream tower failure classes, mapped to HTTP statuses by the API error
// handler (401 auth, 503 unreachable, 408 timeout).
var ErrTowerAuthFailed = errors.New("tower authentication failed")
var ErrTowerUnreachable = errors.New("tower instance unreachable")
var ErrTowerTimeout = errors.New("tower connection timed out")

// TowerConfig stores the connection details used by the credential proxy.
// Only a single record exists; saving replaces it.
type TowerConfig struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	BaseURL  string `json:"base_url" bson:"base_url"`
	Username string `json:"username" bson:"username"`
	Password string `json:"-" bson:"password"`
}
