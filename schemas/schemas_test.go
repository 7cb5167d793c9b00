package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	entries, err := files.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := Read(entry.Name())
			require.NoError(t, err)

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasSchema := schemaObj["$schema"]
			_, hasType := schemaObj["type"]
			assert.True(t, hasSchema && hasType, "schema should declare $schema and type")
		})
	}
}

func TestStructuredInsight_RequiredKeys(t *testing.T) {
	var schemaObj struct {
		Required             []string       `json:"required"`
		AdditionalProperties bool           `json:"additionalProperties"`
		Properties           map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(StructuredInsight(), &schemaObj))

	want := []string{
		"fecha_analisis",
		"resumen_mercado",
		"sectores_con_mayor_demanda",
		"habilidades_mas_pedidas",
		"eventos_relevantes",
		"recomendaciones",
	}
	assert.ElementsMatch(t, want, schemaObj.Required)
	assert.False(t, schemaObj.AdditionalProperties)
	assert.Len(t, schemaObj.Properties, len(want))
}
