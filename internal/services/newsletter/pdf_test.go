package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
)

func TestNewsletterService_RenderPDF(t *testing.T) {
	svc := services.NewNewsletterService(new(NewsletterRepoMock), new(SenderMock), newNoopLogger())

	digest := &services.Digest{
		Subject: "Lettre de mars",
		Links: []models.CuratedLink{
			{Title: "Lien externe", URL: "https://example.com"},
		},
		Events: []*models.Event{
			{Title: "Assemblée générale", Location: "Paris",
				EventDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
		},
		Articles: []*models.Article{
			{Title: "Bilan du trimestre", AuthorName: "Marie Curie"},
		},
	}

	raw, err := svc.RenderPDF(digest)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestNewsletterService_RenderPDF_EmptyDigest(t *testing.T) {
	svc := services.NewNewsletterService(new(NewsletterRepoMock), new(SenderMock), newNoopLogger())

	raw, err := svc.RenderPDF(&services.Digest{Subject: "Lettre vide"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}
