package storage

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.nyumba.test/listing-images/u1/a.jpg",
		PublicURL("https://cdn.nyumba.test/", "listing-images", "/u1/a.jpg"),
	)
	assert.Equal(t,
		"http://localhost:9000/listing-images/u1/b.png",
		PublicURL("http://localhost:9000", "/listing-images/", "u1/b.png"),
	)
}

func TestNewMinioStoreRequiresCredentials(t *testing.T) {
	_, err := NewMinioStore(&config.Config{MinioEndpoint: "localhost:9000", MinioBucket: "listing-images"})
	assert.Error(t, err)

	_, err = NewMinioStore(&config.Config{MinioAccessKey: "k", MinioSecretKey: "s"})
	assert.Error(t, err)
}
