package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_Window(t *testing.T) {
	var h History
	for i := 0; i < 20; i++ {
		h = append(h, ConversationTurn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	w := h.Window(16)
	assert.Len(t, w, 16)
	assert.Equal(t, "turn 4", w[0].Content)
	assert.Equal(t, "turn 19", w[15].Content)
	assert.Len(t, h, 20)

	assert.Len(t, h[:3].Window(16), 3)
	assert.Nil(t, h.Window(0))
}

func TestHistory_Append(t *testing.T) {
	h := History{}.Append("hola", "buenas")
	assert.Equal(t, History{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "buenas"},
	}, h)
}
