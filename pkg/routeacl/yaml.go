package routeacl

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nasiyapay/consolekit/pkg/permissions"
)

type tableFile struct {
	Routes []struct {
		Pattern string `yaml:"pattern"`
		Action  string `yaml:"action"`
		Subject string `yaml:"subject"`
	} `yaml:"routes"`
}

// Parse reads a YAML route table. Declaration order in the file is the
// table's match order, so more specific patterns belong first.
//
// Example file:
//
//	routes:
//	  - pattern: /orders
//	    action: view
//	    subject: orders
//	  - pattern: /clients/[id]
//	    action: show
//	    subject: clients
func Parse(r io.Reader) (*Table, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Join(ErrInvalidTableFile, err)
	}

	entries := make([]Entry, 0, len(f.Routes))
	for _, route := range f.Routes {
		entries = append(entries, Entry{
			Pattern:  route.Pattern,
			Required: permissions.Permission{Action: route.Action, Subject: route.Subject},
		})
	}
	return New(entries)
}

// Load reads a YAML route table from a file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidTableFile, err)
	}
	defer f.Close()
	return Parse(f)
}
