package glossary

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbbreviationDump(t *testing.T) {
	g, _ := newTestGlossary(t)
	ctx := context.Background()

	_, err := g.Abbreviations.Create(ctx, "GPU", "Graphics Processing Unit", "", false, nil)
	require.NoError(t, err)
	_, err = g.Abbreviations.Create(ctx, "CPU", "Central Processing Unit", "core", true, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Abbreviations.Dump(&buf))

	assert.Equal(t,
		"1;GPU;Graphics Processing Unit;;0\n"+
			"2;CPU;Central Processing Unit;core;1\n",
		buf.String())
}

func TestAbbreviationDump_Empty(t *testing.T) {
	g, _ := newTestGlossary(t)

	var buf bytes.Buffer
	require.NoError(t, g.Abbreviations.Dump(&buf))
	assert.Empty(t, buf.String())
}
