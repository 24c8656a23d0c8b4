package spotify

import (
	"context"
	"fmt"
	"net/http"
)

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// CreatePlaylistForUser creates a private playlist on the authenticated
// user's account, adds the given track URIs, and returns the playlist URL.
// The access token comes from the user's OAuth session, not the
// client-credentials token.
func (c *Client) CreatePlaylistForUser(ctx context.Context, accessToken, name string, uris []string) (string, error) {
	var profile profileObject
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL+"/me", accessToken, nil, &profile); err != nil {
		return "", fmt.Errorf("spotify adapter: fetch profile failed: %w", err)
	}

	var playlist playlistObject
	body := createPlaylistRequest{Name: name, Description: "Created by Resonate", Public: false}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/users/%s/playlists", c.apiURL, profile.ID), accessToken, body, &playlist); err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist failed: %w", err)
	}

	if len(uris) > 0 {
		add := addTracksRequest{URIs: uris}
		if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/playlists/%s/tracks", c.apiURL, playlist.ID), accessToken, add, nil); err != nil {
			return "", fmt.Errorf("spotify adapter: add tracks failed: %w", err)
		}
	}

	return playlist.ExternalURLs.Spotify, nil
}
