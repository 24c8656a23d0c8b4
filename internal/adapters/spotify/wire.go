package spotify

// Wire types mirroring the Spotify Web API response shapes.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type trackObject struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artists      []artistObject `json:"artists"`
	Album        albumObject    `json:"album"`
	Popularity   int            `json:"popularity"`
	PreviewURL   string         `json:"preview_url"`
	URI          string         `json:"uri"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

type artistObject struct {
	Name string `json:"name"`
}

type albumObject struct {
	Name   string        `json:"name"`
	Images []imageObject `json:"images"`
}

type imageObject struct {
	URL string `json:"url"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type searchResponse struct {
	Tracks struct {
		Items []trackObject `json:"items"`
	} `json:"tracks"`
}

type audioFeaturesObject struct {
	Energy  float64 `json:"energy"`
	Valence float64 `json:"valence"`
}

type profileObject struct {
	ID string `json:"id"`
}

type playlistObject struct {
	ID           string       `json:"id"`
	ExternalURLs externalURLs `json:"external_urls"`
}
