package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppBuildInfo_Fields(t *testing.T) {
	info := NewAppBuildInfo("1.2.0", " ", "abc123")

	assert.Equal(t, "1.2.0", info.Version())
	assert.Equal(t, []BuildField{
		{Name: "Build version", Value: "1.2.0"},
		{Name: "Build date", Value: "N/A"},
		{Name: "Build commit", Value: "abc123"},
	}, info.Fields())
}

func TestAppBuildInfo_ZeroValue(t *testing.T) {
	var info AppBuildInfo

	assert.Equal(t, "N/A", info.Version())
	for _, f := range info.Fields() {
		assert.Equal(t, "N/A", f.Value, f.Name)
	}
}
