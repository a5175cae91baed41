package gazelle

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const torrentContentType = "application/x-bittorrent"

// DownloadTorrent fetches the .torrent file of a torrent.
//
// The indexer answers with a JSON envelope instead of a torrent when the
// call fails. That envelope is classified like any other response; a success
// envelope where a torrent was expected is KindOther.
func (c *Client) DownloadTorrent(ctx context.Context, id int) (data []byte, err error) {
	const op = "download torrent"
	log := c.requestLogger(op)
	start := time.Now()
	defer func() { c.finish(log, op, start, err) }()

	resp, err := c.send(ctx, log, request{
		op:     op,
		method: http.MethodGet,
		query:  actionQuery("download", id),
	})
	if err != nil {
		return nil, err
	}

	if !strings.Contains(resp.header.Get("Content-Type"), torrentContentType) {
		if _, err := decodeAndClassify[json.RawMessage](op, resp); err != nil {
			return nil, err
		}
		return nil, &Error{Op: op, Kind: KindOther, StatusCode: resp.status}
	}

	if resp.status < 200 || resp.status > 299 {
		if err := statusError(op, resp.status, ""); err != nil {
			return nil, err
		}
		return nil, &Error{Op: op, Kind: KindOther, StatusCode: resp.status}
	}
	return resp.body, nil
}
