package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/ui/style"
)

func TestTargetColor_Cycles(t *testing.T) {
	assert.Equal(t, lipgloss.Color("1"), style.TargetColor(0))
	assert.Equal(t, lipgloss.Color("6"), style.TargetColor(5))
	assert.Equal(t, style.TargetColor(0), style.TargetColor(6))
	assert.Equal(t, style.TargetColor(2), style.TargetColor(14))
}
