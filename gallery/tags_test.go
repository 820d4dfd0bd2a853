package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteTags(t *testing.T) {
	assert.Equal(t, "ping <@alice> and <@bob>", RewriteTags("ping @alice and @bob"))
	assert.Equal(t, "None", RewriteTags("None"))
	assert.Equal(t, "", RewriteTags(""))
	assert.Equal(t, "<@under_score9>", RewriteTags("@under_score9"))

	// Tokens that merely contain @ are not mentions.
	assert.Equal(t, "mail me a@b.com", RewriteTags("mail me a@b.com"))
	assert.Equal(t, "@!nope", RewriteTags("@!nope"))

	// Whitespace between tokens is preserved exactly.
	assert.Equal(t, "a  <@b>\n<@c>", RewriteTags("a  @b\n@c"))
}
