package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURL(t *testing.T) {
	bucket, key := ParseURL("https://jurisia-docs.s3.us-east-1.amazonaws.com/casos/caso-1/doc-1_demanda.pdf")
	assert.Equal(t, "jurisia-docs", bucket)
	assert.Equal(t, "casos/caso-1/doc-1_demanda.pdf", key)

	bucket, key = ParseURL("https://otro-bucket.s3.eu-west-1.amazonaws.com/archivo.pdf")
	assert.Equal(t, "otro-bucket", bucket)
	assert.Equal(t, "archivo.pdf", key)

	bucket, key = ParseURL("https://solo-host.s3.us-east-1.amazonaws.com")
	assert.Equal(t, "solo-host", bucket)
	assert.Empty(t, key)
}
