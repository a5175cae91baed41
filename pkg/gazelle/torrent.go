package gazelle

import (
	"context"
	"net/http"
	"regexp"
)

// Torrent is a single edition and format of a release.
type Torrent struct {
	ID                      int    `json:"id"`
	Media                   string `json:"media"`
	Format                  string `json:"format"`
	Encoding                string `json:"encoding"`
	Remastered              bool   `json:"remastered"`
	RemasterYear            int    `json:"remasterYear"`
	RemasterTitle           string `json:"remasterTitle"`
	RemasterRecordLabel     string `json:"remasterRecordLabel"`
	RemasterCatalogueNumber string `json:"remasterCatalogueNumber"`
	Scene                   bool   `json:"scene"`
	HasLog                  bool   `json:"hasLog"`
	HasCue                  bool   `json:"hasCue"`
	LogScore                int    `json:"logScore"`
	FileCount               int    `json:"fileCount"`
	Size                    int64  `json:"size"`
	Seeders                 int    `json:"seeders"`
	Leechers                int    `json:"leechers"`
	Snatched                int    `json:"snatched"`
	HasSnatched             *bool  `json:"has_snatched,omitempty"`
	Trumpable               *bool  `json:"trumpable,omitempty"`
	LossyWebApproved        *bool  `json:"lossyWebApproved,omitempty"`
	LossyMasterApproved     *bool  `json:"lossyMasterApproved,omitempty"`
	IsNeutralleech          *bool  `json:"isNeutralleech,omitempty"`
	IsFreeload              *bool  `json:"isFreeload,omitempty"`
	Reported                bool   `json:"reported"`
	Time                    string `json:"time"`
	Description             string `json:"description"`

	// FileList is encoded as "name{{{size}}}|||name{{{size}}}".
	FileList string `json:"fileList"`
	FilePath string `json:"filePath"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

// TorrentResponse is the payload of action=torrent.
type TorrentResponse struct {
	Group   Group   `json:"group"`
	Torrent Torrent `json:"torrent"`
}

var flacEntry = regexp.MustCompile(`([^|]+\.flac)\{\{\{\d+\}\}\}(?:\|\|\|)?`)

// FLACs returns the paths of the .flac files in FileList, in listed order.
func (t Torrent) FLACs() []string {
	matches := flacEntry.FindAllStringSubmatch(t.FileList, -1)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m[1])
	}
	return paths
}

// GetTorrent fetches a torrent and its group.
func (c *Client) GetTorrent(ctx context.Context, id int) (*TorrentResponse, error) {
	return execute[TorrentResponse](ctx, c, request{
		op:     "get torrent",
		method: http.MethodGet,
		query:  actionQuery("torrent", id),
	})
}
