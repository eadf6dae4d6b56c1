package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Key drift would break log ingestion schemas.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{RunID("r1"), KeyRunID, "r1"},
		{Stage("render"), KeyStage, "render"},
		{Section("KEY SKILLS"), KeySection, "KEY SKILLS"},
		{Path("/tmp/cv.docx"), KeyPath, "/tmp/cv.docx"},
		{Action("rendered"), KeyAction, "rendered"},
		{Applied(true), KeyApplied, "true"},
		{Count(3), KeyCount, "3"},
		{Error(errors.New("boom")), KeyError, "boom"},
		{Error(nil), KeyError, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.String())
	}
}
