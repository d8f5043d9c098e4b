package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDUnique(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsEmpty())
}

func TestNewWorkbookIDTrims(t *testing.T) {
	assert.Equal(t, WorkbookID("legal.xlsx"), NewWorkbookID("  legal.xlsx "))
}

func TestParseRunID(t *testing.T) {
	id, err := ParseRunID("0190a8b2-aaaa-bbbb-cccc-1234567890ab")
	assert.NoError(t, err)
	assert.Equal(t, "0190a8b2-aaaa-bbbb-cccc-1234567890ab", id.String())

	_, err = ParseRunID("  ")
	assert.Error(t, err)
}

func TestComputeFieldsHashOrderIndependent(t *testing.T) {
	a := ComputeFieldsHash(map[string]string{"statutes": "Gov. Code 8550", "provisions": "shelter"})
	b := ComputeFieldsHash(map[string]string{"provisions": "shelter", "statutes": "Gov. Code 8550"})
	assert.Equal(t, a, b)

	c := ComputeFieldsHash(map[string]string{"statutes": "other"})
	assert.NotEqual(t, a, c)
}
