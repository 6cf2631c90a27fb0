package response

import (
	"mime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachment(t *testing.T) {
	assert.Equal(t, "attachment; filename*=UTF-8''Lecture%201.pdf", Attachment("Lecture 1.pdf"))

	for _, name := range []string{
		"Lecture 1; Part=2, notes.pdf",
		"a@b:c&d+e$f.txt",
		`quote"and\slash.txt`,
		"конспект (1).pdf",
		"50% off [draft].md",
	} {
		t.Run(name, func(t *testing.T) {
			disposition, params, err := mime.ParseMediaType(Attachment(name))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, name, params["filename"])
		})
	}
}
