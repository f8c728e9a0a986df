package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModeName(t *testing.T) {
	table := []struct {
		eval, plot, example string
		mode                string
		valid               bool
	}{
		{"", "", "", "", false},
		{"a.cfg", "", "", "Eval", true},
		{"", "a.cfg", "", "Plot", true},
		{"", "", "Semi", "ExampleConfig", true},
		{"a.cfg", "b.cfg", "", "", false},
		{"a.cfg", "b.cfg", "Semi", "", false},
	}

	for i, test := range table {
		vars := map[string]*string{
			"Eval":          &test.eval,
			"Plot":          &test.plot,
			"ExampleConfig": &test.example,
		}
		mode, err := getModeName(vars)
		if test.valid {
			assert.NoError(t, err, "%d)", i+1)
			assert.Equal(t, test.mode, mode, "%d)", i+1)
		} else {
			assert.Error(t, err, "%d)", i+1)
		}
	}
}
