package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Clean_ComposesCombiningMarks(t *testing.T) {
	decomposed := "Андре\u0438\u0306" // и + combining breve
	composed := "Андре\u0439"

	assert.Equal(t, composed, Clean("  "+decomposed+"\t"))
}

func Test_Clean_KeepsPlainText(t *testing.T) {
	assert.Equal(t, "Herbert", Clean("Herbert"))
	assert.Equal(t, "", Clean("   "))
}
