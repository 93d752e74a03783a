package tsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/tscli/errors"
)

func TestParseExpr(t *testing.T) {
	tests := []struct {
		src   string
		kind  ExprKind
		value string
	}{
		{"42", ExprNumber, "42"},
		{"-1.5", ExprNumber, "-1.5"},
		{"0x1F", ExprNumber, "0x1F"},
		{"-Infinity", ExprNumber, "-Infinity"},
		{`"hello"`, ExprString, "hello"},
		{`'it\'s'`, ExprString, "it's"},
		{"`plain`", ExprString, "plain"},
		{"true", ExprBoolean, "true"},
		{"null", ExprNull, ""},
		{"undefined", ExprUndefined, ""},
		{"(7)", ExprNumber, "7"},
		{"42;", ExprNumber, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := ParseExpr("@default", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.value, e.Value)
		})
	}
}

func TestParseExprComposite(t *testing.T) {
	ref, err := ParseExpr("@default", `Color.A`)
	require.NoError(t, err)
	assert.Equal(t, ExprRef, ref.Kind)
	assert.Equal(t, []string{"Color", "A"}, ref.Path)
	assert.Equal(t, "Color.A", ref.Text)

	indexed, err := ParseExpr("@default", `Color["B"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Color", "B"}, indexed.Path)

	arr, err := ParseExpr("@default", `[1, "two", Color.A,]`)
	require.NoError(t, err)
	require.Equal(t, ExprArray, arr.Kind)
	require.Len(t, arr.Elems, 3)
	assert.Equal(t, ExprString, arr.Elems[1].Kind)

	obj, err := ParseExpr("@default", `{ a: 1, "b-c": [true] }`)
	require.NoError(t, err)
	require.Equal(t, ExprObject, obj.Kind)
	require.Len(t, obj.Props, 2)
	assert.Equal(t, "b-c", obj.Props[1].Key)
	assert.Equal(t, ExprArray, obj.Props[1].Value.Kind)
}

func TestParseExprRejects(t *testing.T) {
	for _, src := range []string{"", "f()", "1 + 2", "`a${b}`", "[1", "{ a }", "- x"} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseExpr("@default", src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrParse))
		})
	}
}
