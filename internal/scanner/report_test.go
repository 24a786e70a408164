package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

func TestRender_Layout(t *testing.T) {
	res := &Result{
		Known: []*domain.Abbreviation{
			{ID: 2, Name: "PC", Description: "Program Counter"},
			{ID: 1, Name: "PC", Description: "Personal Computer"},
			{ID: 3, Name: "CPU", Description: "Central Processing Unit"},
		},
		Unknown:    []string{"GPU", "ABS"},
		Exceptions: []*domain.Exception{{ID: 9, Name: "OK"}, {ID: 8, Name: "NB"}},
	}

	want := strings.Join([]string{
		"KNOWN ABBREVIATIONS (3):",
		"CPU - Central Processing Unit",
		"PC - Personal Computer",
		"PC - Program Counter",
		"",
		"UNKNOWN ABBREVIATIONS (2):",
		"ABS - ",
		"GPU - ",
		"",
		"KNOWN EXCEPTIONS (2):",
		"NB",
		"OK",
		"",
		"ALL FOUND ABBREVIATIONS (5):",
		"ABS - ",
		"CPU - Central Processing Unit",
		"GPU - ",
		"PC - Personal Computer",
		"PC - Program Counter",
		"",
	}, "\n")

	assert.Equal(t, want, Render(res))
}

func TestRenderMarkup_OnlyLineBreaksChange(t *testing.T) {
	res := &Result{
		Known:   []*domain.Abbreviation{{ID: 1, Name: "R&D", Description: "<Research> & Development"}},
		Unknown: []string{"XYZ"},
	}

	text := Render(res)
	markup := RenderMarkup(res)

	assert.Equal(t, text, strings.ReplaceAll(markup, "<br>\n", "\n"))
	assert.Equal(t, strings.Count(text, "\n"), strings.Count(markup, "<br>\n"))
	assert.Contains(t, markup, "R&D - <Research> & Development<br>\n")
}

func TestResult_KnownNames(t *testing.T) {
	res := &Result{Known: []*domain.Abbreviation{
		{ID: 1, Name: "PC", Description: "Personal Computer"},
		{ID: 2, Name: "PC", Description: "Program Counter"},
		{ID: 3, Name: "RAM", Description: "Random Access Memory"},
	}}
	assert.Equal(t, []string{"PC", "RAM"}, res.KnownNames())
}
