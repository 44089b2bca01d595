package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginPatterns(t *testing.T) {
	assert.Equal(t, []string{"*"}, originPatterns([]string{"https://a.example", "*"}))
	assert.Equal(t,
		[]string{"a.example", "localhost:3000"},
		originPatterns([]string{"https://a.example", "http://localhost:3000"}))
	assert.Nil(t, originPatterns(nil))
}
