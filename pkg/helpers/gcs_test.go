package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/pics-bucket/pics/recipe/r1/a.png",
		PublicURL("pics-bucket", "pics/recipe/r1/a.png"))
	assert.Equal(t, "https://storage.googleapis.com/b/pics/my%20photo.jpg",
		PublicURL("b", "pics/my photo.jpg"))
}
