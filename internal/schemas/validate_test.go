package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightSchemaPath(t *testing.T) string {
	t.Helper()
	path := ResolveSchemaPath(filepath.Join("schemas", "structured_insight.schema.json"))
	require.NotEmpty(t, path, "schema file should be resolvable from the package directory")
	return path
}

func TestValidateJSON(t *testing.T) {
	schemaPath := insightSchemaPath(t)

	tests := []struct {
		name       string
		file       string
		wantFields []string
	}{
		{name: "valid", file: "insight_valid.json"},
		{name: "missing key", file: "insight_missing_key.json", wantFields: []string{"(root)"}},
		{name: "wrong type", file: "insight_wrong_type.json", wantFields: []string{"habilidades_mas_pedidas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, filepath.Join("testdata", tt.file))
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantFields, verr.Fields())
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	schemaPath := insightSchemaPath(t)

	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "insight_valid.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schemaPath, "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	err := ValidateJSON(insightSchemaPath(t), filepath.Join("testdata", "insight_malformed.json"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateStructuredInsight(t *testing.T) {
	valid, err := os.ReadFile(filepath.Join("testdata", "insight_valid.json"))
	require.NoError(t, err)
	assert.NoError(t, ValidateStructuredInsight(valid))

	tests := []struct {
		name string
		doc  string
	}{
		{"extra key", `{"fecha_analisis":"2025-03-14","resumen_mercado":"","sectores_con_mayor_demanda":[],"habilidades_mas_pedidas":[],"eventos_relevantes":[],"recomendaciones":[],"extra":1}`},
		{"bad date", `{"fecha_analisis":"14/03/2025","resumen_mercado":"","sectores_con_mayor_demanda":[],"habilidades_mas_pedidas":[],"eventos_relevantes":[],"recomendaciones":[]}`},
		{"sector without name", `{"fecha_analisis":"2025-03-14","resumen_mercado":"","sectores_con_mayor_demanda":[{"cantidad_ofertas_aproximada":1,"ejemplos_puestos":[]}],"habilidades_mas_pedidas":[],"eventos_relevantes":[],"recomendaciones":[]}`},
		{"array", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			assert.True(t, errors.As(ValidateStructuredInsight([]byte(tt.doc)), &verr))
		})
	}
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"Lima"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name"}, verr.Fields())

	err = ValidateJSONString(`{"type":`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "fecha_analisis", Message: "is required"},
		{Field: "recomendaciones", Message: "invalid type"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "1. fecha_analisis: is required")
	assert.Contains(t, msg, "2. recomendaciones: invalid type")
}
