package service

import (
	"testing"

	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsTrustedMediaURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"https trusted host", "https://res.cloudinary.com/demo/sig.png", true},
		{"http trusted host", "http://res.cloudinary.com/demo/sig.png", true},
		{"host is case insensitive", "https://RES.Cloudinary.com/sig.png", true},
		{"other host", "https://evil.example.com/sig.png", false},
		{"trusted host as subdomain prefix", "https://res.cloudinary.com.evil.io/sig.png", false},
		{"not a url", "::not a url", false},
		{"ftp scheme", "ftp://res.cloudinary.com/sig.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTrustedMediaURL(tt.raw, "res.cloudinary.com"))
		})
	}

	assert.False(t, isTrustedMediaURL("https://res.cloudinary.com/sig.png", ""))
}

func TestIsValidSignatureData(t *testing.T) {
	assert.True(t, isValidSignatureData("data:image/png;base64,iVBORw0KGgo="))
	assert.True(t, isValidSignatureData("data:image/webp;base64,UklGRg=="))
	assert.False(t, isValidSignatureData("data:image/svg+xml;base64,PHN2Zz4="))
	assert.False(t, isValidSignatureData("data:image/png;base64,"))
	assert.False(t, isValidSignatureData("iVBORw0KGgo="))
}

func TestIsRemoteReference(t *testing.T) {
	assert.True(t, isRemoteReference("https://res.cloudinary.com/x.png"))
	assert.True(t, isRemoteReference("  HTTP://host/x.png"))
	assert.False(t, isRemoteReference("data:image/png;base64,AAAA"))
}

func TestMissingFinalizeFields(t *testing.T) {
	lat := 0.0

	missing := missingFinalizeFields(&models.FinalReport{DeployedUnit: "ABT-45", FinalLatitude: &lat}, "", "", "")

	assert.Equal(t, []string{"team", "action_description", "final_longitude", "signer_name", "signature_url/signature_data"}, missing)
	assert.Empty(t, missingFinalizeFields(nil, "J. Silva", "", "data:image/png;base64,AAAA"))
}

func TestIsImageDataURI(t *testing.T) {
	assert.True(t, isImageDataURI("data:image/svg+xml;base64,AAAA"))
	assert.True(t, isImageDataURI("DATA:IMAGE/png;base64,AAAA"))
	assert.False(t, isImageDataURI("data:text/plain;base64,AAAA"))
	assert.False(t, isImageDataURI("https://example.org/sig.png"))
}
