package domain

import "fmt"

type ProfileSource string

const (
	ProfileSourceConfig      ProfileSource = "config"
	ProfileSourceCredentials ProfileSource = "credentials"
)

// ConfigProfile is a named AWS profile discovered in the shared config files
type ConfigProfile struct {
	Name   string
	Source ProfileSource
	Region string
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Source, c.Name)
}
