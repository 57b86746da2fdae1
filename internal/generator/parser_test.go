package generator_test

import (
	"testing"

	"sitegen-backend/internal/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormedBlocks(t *testing.T) {
	response := `<FILE name="index.html">
<!doctype html>
<html><body>hello</body></html>
</FILE>

<FILE name="style.css">
body { margin: 0; }
</FILE>

<FILE name="script.js">
console.log("hi");
</FILE>`

	files := generator.ParseResponse(response)

	require.Len(t, files, 3)
	assert.Equal(t, "<!doctype html>\n<html><body>hello</body></html>", files["index.html"])
	assert.Equal(t, "body { margin: 0; }", files["style.css"])
	assert.Equal(t, `console.log("hi");`, files["script.js"])
}

func TestParseIgnoresSurroundingText(t *testing.T) {
	response := `Here is your application:

<FILE name="index.html">
<p>ok</p>
</FILE>

Let me know if you need changes.`

	files := generator.ParseResponse(response)

	require.Len(t, files, 1)
	assert.Equal(t, "<p>ok</p>", files["index.html"])
}

func TestParseMalformedClosingTags(t *testing.T) {
	// The second block never closes, so the strict pattern cannot match and
	// the line scanner has to recover both files.
	response := `<FILE name="index.html">
<p>first</p>
<FILE name="style.css">
body { color: red; }`

	files := generator.ParseResponse(response)

	require.Len(t, files, 2)
	assert.Equal(t, "<p>first</p>", files["index.html"])
	assert.Equal(t, "body { color: red; }", files["style.css"])
}

func TestParseEmptyResponse(t *testing.T) {
	assert.Empty(t, generator.ParseResponse(""))
	assert.Empty(t, generator.ParseResponse("no files here, sorry"))
}
