package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "acme health system", Fold("  Acme\n\tHealth   System "))
	assert.Equal(t, "", Fold("   "))
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "None", "NULL", "n/a", "NA", "-", "--", "Not Applicable"} {
		assert.True(t, IsMissing(s), s)
	}
	assert.False(t, IsMissing("Acme"))
	assert.False(t, IsMissing("0"))
}

func TestContainsLiteral(t *testing.T) {
	chunk := "Issued by the Acme   Health\nSystem on behalf of its members."

	assert.True(t, ContainsLiteral(chunk, "acme health system"))
	assert.True(t, ContainsLiteral(chunk, "ACME HEALTH"))
	assert.False(t, ContainsLiteral(chunk, "Acme Hospital"))
	assert.False(t, ContainsLiteral(chunk, ""))
	assert.False(t, ContainsLiteral(chunk, "   "))
}
