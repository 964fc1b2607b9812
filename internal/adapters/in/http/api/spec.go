// Package api holds the HTTP contract of the back office: the embedded
// OpenAPI document, request and response types and the echo route binding.
package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger returns the parsed and validated OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterDocs publishes doc under the default swag instance so the
// swagger UI can serve it as doc.json. Later calls are no-ops.
func RegisterDocs(doc *openapi3.T) error {
	registerOnce.Do(func() {
		data, err := json.Marshal(doc)
		if err != nil {
			registerErr = fmt.Errorf("error encoding OpenAPI document: %w", err)
			return
		}
		swag.Register(swag.Name, swaggerDoc{json: string(data)})
	})
	return registerErr
}
