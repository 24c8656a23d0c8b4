package spotify

import (
	"strings"

	"resonate/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a domain Track.
func mapTrackToDomain(tr trackObject) domain.Track {
	names := make([]string, 0, len(tr.Artists))
	for _, a := range tr.Artists {
		names = append(names, a.Name)
	}

	coverURL := ""
	if len(tr.Album.Images) > 0 {
		coverURL = tr.Album.Images[0].URL
	}

	album := tr.Album.Name
	if strings.TrimSpace(album) == "" {
		album = domain.UnknownAlbum
	}

	return domain.Track{
		ID:          tr.ID,
		Title:       tr.Name,
		Artist:      strings.Join(names, ", "),
		Album:       album,
		ExternalURL: tr.ExternalURLs.Spotify,
		URI:         tr.URI,
		CoverURL:    coverURL,
		PreviewURL:  tr.PreviewURL,
		Popularity:  tr.Popularity,
	}
}
