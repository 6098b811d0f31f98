package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRegistry_Builtins(t *testing.T) {
	sr := NewSchemaRegistry()

	want := []string{SchemaNumbers, SchemaProblemFile, SchemaSearch}
	assert.Equal(t, want, sr.ListSchemas())

	for _, name := range want {
		_, ok := sr.GetSchema(name)
		assert.True(t, ok, "schema %s", name)
	}
}

func TestSchemaRegistry_ValidateAgainstSchema(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	tests := []struct {
		name    string
		schema  string
		data    interface{}
		wantErr bool
	}{
		{
			name:   "valid numbers",
			schema: SchemaNumbers,
			data:   NumbersConfig{Values: []int{2, 4}, Goal: 6},
		},
		{
			name:    "negative value",
			schema:  SchemaNumbers,
			data:    NumbersConfig{Values: []int{-2, 4}, Goal: 6},
			wantErr: true,
		},
		{
			name:   "valid search",
			schema: SchemaSearch,
			data:   SearchConfig{Strategy: "depth_all", Step: 2},
		},
		{
			name:    "invalid strategy",
			schema:  SchemaSearch,
			data:    SearchConfig{Strategy: "sideways", Step: 1},
			wantErr: true,
		},
		{
			name:    "unknown schema",
			schema:  "nope",
			data:    SearchConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ValidateAgainstSchema(ctx, tt.schema, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemaRegistry_RegisterSchema(t *testing.T) {
	sr := NewSchemaRegistry()

	require.NoError(t, sr.RegisterSchema("custom", `limit: int & <10`))
	_, ok := sr.GetSchema("custom")
	assert.True(t, ok)

	assert.Error(t, sr.RegisterSchema("broken", `limit: int &`))

	err := sr.ValidateAgainstSchema(context.Background(), "custom", map[string]int{"limit": 12})
	assert.Error(t, err)
}
