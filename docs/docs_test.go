package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/pintureria-api/docs"
)

func TestSwagger_Registrado(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Pinturería API", doc.Info.Title)
	for _, p := range []string{"/api/sales", "/api/sales/{id}/cancel", "/api/payments", "/api/invoices/{id}/pdf"} {
		assert.Contains(t, doc.Paths, p)
	}
}
