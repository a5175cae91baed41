package gazelle

import (
	"context"
	"net/http"
)

// Credit is an artist credited on a release.
type Credit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits groups the artists of a release by role.
type Credits struct {
	Arranger  []Credit `json:"arranger,omitempty"` // OPS only
	Artists   []Credit `json:"artists"`
	Composers []Credit `json:"composers"`
	Conductor []Credit `json:"conductor"`
	DJ        []Credit `json:"dj"`
	Producer  []Credit `json:"producer"`
	RemixedBy []Credit `json:"remixedBy"`
	With      []Credit `json:"with"`
}

// Group is a release: an album, EP or single that may hold several
// editions and formats.
type Group struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Year            int    `json:"year"`
	RecordLabel     string `json:"recordLabel"`
	CatalogueNumber string `json:"catalogueNumber"`

	// ReleaseType indexes the release type list of the upload form,
	// e.g. 1 Album, 5 EP, 9 Single, 21 Unknown.
	ReleaseType int `json:"releaseType"`

	// CategoryID does not use the UploadForm numbering.
	CategoryID   int      `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	Time         string   `json:"time"`
	VanityHouse  bool     `json:"vanityHouse"`
	IsBookmarked bool     `json:"isBookmarked"`
	Tags         []string `json:"tags"`
	WikiBody     string   `json:"wikiBody"`
	BBBody       string   `json:"bbBody,omitempty"`
	WikiImage    string   `json:"wikiImage"`
	MusicInfo    *Credits `json:"musicInfo,omitempty"`
}

// GroupResponse is the payload of action=torrentgroup.
type GroupResponse struct {
	Group    Group     `json:"group"`
	Torrents []Torrent `json:"torrents"`
}

// GetTorrentGroup fetches a release and all of its torrents.
func (c *Client) GetTorrentGroup(ctx context.Context, id int) (*GroupResponse, error) {
	return execute[GroupResponse](ctx, c, request{
		op:     "get torrent group",
		method: http.MethodGet,
		query:  actionQuery("torrentgroup", id),
	})
}
