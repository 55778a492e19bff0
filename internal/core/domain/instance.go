package domain

import "errors"

const (
	InstanceActive   = "active"
	InstanceInactive = "inactive"
)

var ErrInstanceNotFound = errors.New("instance not found")
var ErrInstanceExists = errors.New("instance already exists")

// Instance is a managed tower automation instance. Password is write-only on
// the API surface and never serialized back to clients.
type Instance struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	URL         string `json:"url" bson:"url"`
	Username    string `json:"username,omitempty" bson:"username,omitempty"`
	Password    string `json:"-" bson:"password,omitempty"`
	Region      string `json:"region,omitempty" bson:"region,omitempty"`
	Environment string `json:"environment,omitempty" bson:"environment,omitempty"`
	Status      string `json:"status" bson:"status"`
}

// Credential is a stored credential bound to one instance.
type Credential struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	Name       string `json:"name" bson:"name"`
	Type       string `json:"type" bson:"type"`
	Username   string `json:"username" bson:"username"`
	Password   string `json:"-" bson:"password"`
	InstanceID string `json:"instance_id" bson:"instance_id"`
}

var ErrCredentialNotFound = errors.New("credential not found")

// Environment is an execution environment registered on an instance.
type Environment struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Image       string `json:"image" bson:"image"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	InstanceID  string `json:"instance_id" bson:"instance_id"`
}

var ErrEnvironmentNotFound = errors.New("environment not found")
