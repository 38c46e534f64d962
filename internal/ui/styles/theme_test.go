package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/tgienger/taskflow/internal/models"
)

func TestHelpLineAlignsDescriptions(t *testing.T) {
	s := NewStyles()

	short := s.HelpLine("n", "new task")
	long := s.HelpLine("esc", "back")
	assert.Contains(t, short, "new task")
	assert.Contains(t, long, "back")
	assert.Equal(t, 7+len("new task"), lipgloss.Width(short))
	assert.Equal(t, 7+len("back"), lipgloss.Width(long))
}

func TestPriorityAndStatusColors(t *testing.T) {
	assert.Equal(t, Current.Error, PriorityColor(models.PriorityHigh))
	assert.Equal(t, Current.Success, PriorityColor(models.PriorityLow))
	assert.Equal(t, Current.ForegroundDim, PriorityColor(models.Priority("urgent")))
	assert.Equal(t, Current.Accent, StatusColor(models.StatusInProgress))
	assert.Equal(t, Current.ForegroundDim, StatusColor(models.Status("blocked")))

	assert.Equal(t, 1, lipgloss.Width(NewStyles().PriorityBadge(models.PriorityMedium)))
}

func TestContentWidthCaps(t *testing.T) {
	assert.Equal(t, 60, ContentWidth(60))
	assert.Equal(t, MaxWidth, ContentWidth(200))
}
