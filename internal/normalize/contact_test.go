package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "jane.smith@acme.gov", Email("Jane.Smith@Acme.gov"))
	assert.Equal(t, "jane.smith@acme.gov", Email("Jane Smith <jane.smith@acme.gov>"))
	assert.Equal(t, "jane.smith@acme.gov", Email("email jane.smith@acme.gov with questions"))
	assert.Equal(t, "", Email("not-an-email"))
	assert.Equal(t, "", Email(""))
	assert.Equal(t, "", Email("jane@localhost"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "5551234567", Phone("(555) 123-4567"))
	assert.Equal(t, "+15551234567", Phone("+1 555 123 4567"))
	assert.Equal(t, "+441632960001", Phone("+00 44 1632 960001"))
	assert.Equal(t, "", Phone("x1234"))
	assert.Equal(t, "", Phone("ext. 42"))
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "Jane Smith", NameFromEmail("jane.smith42@acme.gov"))
	assert.Equal(t, "Jane Smith", NameFromEmail("jane_smith@acme.gov"))
	assert.Equal(t, "Procurement", NameFromEmail("procurement@acme.gov"))
	assert.Equal(t, "", NameFromEmail("12345@acme.gov"))
	assert.Equal(t, "", NameFromEmail("not-an-email"))
}

func TestEmailsInText(t *testing.T) {
	got := EmailsInText("Contact Jane.Smith@Acme.gov or bids@acme.gov.")
	assert.Equal(t, []string{"jane.smith@acme.gov", "bids@acme.gov"}, got)
	assert.Empty(t, EmailsInText("no addresses here"))
}

func TestPhonesInText(t *testing.T) {
	got := PhonesInText("Call (555) 123-4567 or +1 555 987 6543.")
	assert.Equal(t, []string{"5551234567", "15559876543"}, got)
	assert.Empty(t, PhonesInText("room 4, floor 2"))
}
