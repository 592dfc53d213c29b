package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "Painel Educacional v"+Version, GetVersionString())
	assert.Contains(t, GetFullVersionString(), GetVersionString())
	assert.False(t, IsPrerelease())
}
