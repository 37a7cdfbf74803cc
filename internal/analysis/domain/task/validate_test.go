package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Task {
	return Task{
		ID:             1,
		Title:          "Write report",
		DueDate:        "2026-09-01",
		EstimatedHours: 2,
		Importance:     5,
	}
}

func TestAssignIDs(t *testing.T) {
	t.Run("fills missing ids by position", func(t *testing.T) {
		in := []Task{{Title: "a"}, {ID: 7, Title: "b"}, {Title: "c"}}
		out := AssignIDs(in)

		assert.Equal(t, 1, out[0].ID)
		assert.Equal(t, 7, out[1].ID)
		assert.Equal(t, 3, out[2].ID)
		// input untouched
		assert.Equal(t, 0, in[0].ID)
	})
}

func TestValidateBatch(t *testing.T) {
	t.Run("valid batch passes", func(t *testing.T) {
		assert.NoError(t, ValidateBatch([]Task{valid()}))
	})

	t.Run("empty batch is a validation error", func(t *testing.T) {
		err := ValidateBatch(nil)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "tasks", verr.Fields[0].Field)
	})

	t.Run("reports every offending field across tasks", func(t *testing.T) {
		bad1 := valid()
		bad1.Title = "   "
		bad1.Importance = 11

		bad2 := valid()
		bad2.ID = 2
		bad2.DueDate = "tomorrow"
		bad2.EstimatedHours = 0

		err := ValidateBatch([]Task{bad1, bad2})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 4)

		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"title", "importance", "due_date", "estimated_hours"}, fields)
		assert.Equal(t, 0, verr.Fields[0].TaskIndex)
		assert.Equal(t, 1, verr.Fields[2].TaskIndex)
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		a := valid()
		b := valid()
		b.Title = "Other"

		err := ValidateBatch([]Task{a, b})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "id", verr.Fields[0].Field)
		assert.Contains(t, verr.Fields[0].Message, "duplicate id 1")
	})

	t.Run("overlong title rejected", func(t *testing.T) {
		tk := valid()
		tk.Title = strings.Repeat("x", MaxTitleLength+1)

		err := ValidateBatch([]Task{tk})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Fields[0].Field)
	})

	t.Run("title length counts runes of the trimmed title", func(t *testing.T) {
		// Surrounding whitespace and multi-byte runes must not push a
		// fitting title over the limit.
		tk := valid()
		tk.Title = "  " + strings.Repeat("é", MaxTitleLength) + "  "
		assert.NoError(t, ValidateBatch([]Task{tk}))

		tk.Title = strings.Repeat("é", MaxTitleLength+1)
		err := ValidateBatch([]Task{tk})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Fields[0].Field)
	})

	t.Run("negative dependency id rejected", func(t *testing.T) {
		tk := valid()
		tk.Dependencies = []int{2, -1}

		err := ValidateBatch([]Task{tk})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "dependencies", verr.Fields[0].Field)
	})

	t.Run("dangling dependency ids are not errors", func(t *testing.T) {
		tk := valid()
		tk.Dependencies = []int{999}
		assert.NoError(t, ValidateBatch([]Task{tk}))
	})
}
