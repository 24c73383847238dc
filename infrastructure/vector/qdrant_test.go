package vector

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

func TestPayloadRoundTrip(t *testing.T) {
	in := search.Payload{
		Title:       "Inflation cools to 2.4%",
		URL:         "https://news.example/inflation",
		Source:      "news.example",
		PublishedAt: "2025-08-12T09:30:00Z",
		Snippet:     "Consumer prices rose less than expected",
	}

	out := payloadFromValueMap(payloadToValueMap(in))
	assert.Equal(t, in, out)
}

func TestPayloadFromValueMapMissingKeys(t *testing.T) {
	out := payloadFromValueMap(map[string]*qdrant.Value{})
	assert.Equal(t, search.Payload{}, out)
}

func TestPointID(t *testing.T) {
	assert.Equal(t, uint64(42), pointID(qdrant.NewIDNum(42)))
	assert.Equal(t, uint64(0), pointID(nil))
}
