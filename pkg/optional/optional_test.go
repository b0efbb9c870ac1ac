// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/pkg/optional"
)

type payload struct {
	Category optional.Field[string] `json:"category"`
}

func TestField_TriState(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		set   bool
		value *string
	}{
		{"absent", `{}`, false, nil},
		{"null", `{"category":null}`, true, nil},
		{"value", `{"category":"tech"}`, true, optional.To("tech")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.set, p.Category.Set)
			assert.Equal(t, tt.value, p.Category.Value)
		})
	}
}

func TestField_RejectsWrongType(t *testing.T) {
	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"category":42}`), &p))
}
